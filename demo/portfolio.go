/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Manzil Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package demo

import (
	_ "embed"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/manzil/manzil/core/records"
	"github.com/manzil/manzil/datasources"
)

//go:embed data/appliances.csv
var appliancesCSV string

//go:embed data/tower_features.csv
var towerFeaturesCSV string

type country struct {
	name, nameAr, code, currency string
}

type city struct {
	name, nameAr, country string
}

type area struct {
	name, nameAr, city string
	lat, lon           float64
}

var countrySeeds = []country{
	{"United Arab Emirates", "الإمارات العربية المتحدة", "AE", "AED"},
	{"Saudi Arabia", "المملكة العربية السعودية", "SA", "SAR"},
	{"Qatar", "قطر", "QA", "QAR"},
	{"Oman", "عُمان", "OM", "OMR"},
	{"Bahrain", "البحرين", "BH", "BHD"},
	{"Egypt", "مصر", "EG", "EGP"},
	{"Kuwait", "الكويت", "KW", "KWD"},
}

var citySeeds = []city{
	{"Dubai", "دبي", "United Arab Emirates"},
	{"Abu Dhabi", "أبوظبي", "United Arab Emirates"},
	{"Sharjah", "الشارقة", "United Arab Emirates"},
	{"Ajman", "عجمان", "United Arab Emirates"},
	{"Riyadh", "الرياض", "Saudi Arabia"},
	{"Jeddah", "جدة", "Saudi Arabia"},
	{"Khobar", "الخبر", "Saudi Arabia"},
	{"Doha", "الدوحة", "Qatar"},
	{"Lusail", "لوسيل", "Qatar"},
	{"Muscat", "مسقط", "Oman"},
	{"Manama", "المنامة", "Bahrain"},
	{"Cairo", "القاهرة", "Egypt"},
	{"Alexandria", "الإسكندرية", "Egypt"},
	{"Kuwait City", "مدينة الكويت", "Kuwait"},
}

var areaSeeds = []area{
	{"Dubai Marina", "دبي مارينا", "Dubai", 25.0805, 55.1403},
	{"Downtown Dubai", "وسط مدينة دبي", "Dubai", 25.1972, 55.2744},
	{"Jumeirah Village Circle", "قرية جميرا الدائرية", "Dubai", 25.0593, 55.2068},
	{"Business Bay", "الخليج التجاري", "Dubai", 25.1857, 55.2650},
	{"Palm Jumeirah", "نخلة جميرا", "Dubai", 25.1124, 55.1390},
	{"Al Barsha", "البرشاء", "Dubai", 25.1136, 55.1961},
	{"Al Reem Island", "جزيرة الريم", "Abu Dhabi", 24.4986, 54.4060},
	{"Saadiyat Island", "جزيرة السعديات", "Abu Dhabi", 24.5456, 54.4344},
	{"Yas Island", "جزيرة ياس", "Abu Dhabi", 24.4959, 54.6066},
	{"Al Majaz", "المجاز", "Sharjah", 25.3236, 55.3842},
	{"Aljada", "الجادة", "Sharjah", 25.3090, 55.4750},
	{"Al Nuaimiya", "النعيمية", "Ajman", 25.3916, 55.4465},
	{"Al Olaya", "العليا", "Riyadh", 24.6953, 46.6848},
	{"Al Malqa", "الملقا", "Riyadh", 24.8069, 46.6104},
	{"Al Shati", "الشاطئ", "Jeddah", 21.5896, 39.1080},
	{"Al Rawdah", "الروضة", "Jeddah", 21.5610, 39.1550},
	{"Al Aqrabiyah", "العقربية", "Khobar", 26.2920, 50.2010},
	{"West Bay", "الخليج الغربي", "Doha", 25.3236, 51.5300},
	{"The Pearl", "اللؤلؤة", "Doha", 25.3716, 51.5510},
	{"Lusail Marina", "مارينا لوسيل", "Lusail", 25.4195, 51.4960},
	{"Al Mouj", "الموج", "Muscat", 23.6170, 58.2670},
	{"Qurum", "القرم", "Muscat", 23.6140, 58.4780},
	{"Seef", "السيف", "Manama", 26.2330, 50.5350},
	{"Juffair", "الجفير", "Manama", 26.2110, 50.6060},
	{"New Cairo", "القاهرة الجديدة", "Cairo", 30.0300, 31.4700},
	{"Zamalek", "الزمالك", "Cairo", 30.0609, 31.2197},
	{"Smouha", "سموحة", "Alexandria", 31.2156, 29.9553},
	{"Sharq", "شرق", "Kuwait City", 29.3790, 47.9900},
}

// Tower names are "<area> <suffix>" and "<prefix> <arabic area>".
var towerNames = []struct{ en, ar string }{
	{"Heights", "مرتفعات"},
	{"Residences", "مساكن"},
	{"Tower", "برج"},
	{"Gate", "بوابة"},
	{"Views", "إطلالات"},
	{"Park", "حديقة"},
}

var designTypes = []struct {
	label           string
	bedrooms, baths int
	sqft            int
}{
	{"Studio", 0, 1, 420},
	{"1 Bedroom", 1, 2, 760},
	{"2 Bedroom", 2, 3, 1180},
	{"3 Bedroom", 3, 4, 1680},
	{"Penthouse", 4, 5, 3250},
}

var designVariants = []string{"Classic", "Premium", "Signature"}

var serviceKinds = []struct{ en, ar, category string }{
	{"Mall", "مول", "Shopping"},
	{"International School", "المدرسة الدولية", "Education"},
	{"Medical Centre", "المركز الطبي", "Healthcare"},
	{"Metro Station", "محطة المترو", "Transport"},
	{"Central Park", "الحديقة المركزية", "Leisure"},
	{"Grand Mosque", "الجامع الكبير", "Community"},
}

// Portfolio is the seeded demo data set, one record slice per collection.
type Portfolio struct {
	collections map[string][]records.Record
}

var (
	defaultOnce      sync.Once
	defaultPortfolio *Portfolio
)

// Default returns the shared demo portfolio, building it on first use.
// Records are immutable, so callers may share the slices.
func Default() *Portfolio {
	defaultOnce.Do(func() {
		defaultPortfolio = Build()
	})
	return defaultPortfolio
}

// Build generates the portfolio. The output is deterministic.
func Build() *Portfolio {
	p := &Portfolio{collections: make(map[string][]records.Record)}

	citiesPerCountry := map[string]int{}
	for _, c := range citySeeds {
		citiesPerCountry[c.country]++
	}
	areasPerCity := map[string]int{}
	for _, a := range areaSeeds {
		areasPerCity[a.city]++
	}

	for i, c := range countrySeeds {
		p.add("countries", map[string]any{
			"id":           i + 1,
			"name":         c.name,
			"name_ar":      c.nameAr,
			"code":         c.code,
			"currency":     c.currency,
			"cities_count": citiesPerCountry[c.name],
		})
	}
	for i, c := range citySeeds {
		p.add("cities", map[string]any{
			"id":          i + 1,
			"name":        c.name,
			"name_ar":     c.nameAr,
			"country":     c.country,
			"areas_count": areasPerCity[c.name],
		})
	}

	towersPerArea := p.buildTowers()
	for i, a := range areaSeeds {
		p.add("areas", map[string]any{
			"id":           i + 1,
			"name":         a.name,
			"name_ar":      a.nameAr,
			"city":         a.city,
			"latitude":     a.lat,
			"longitude":    a.lon,
			"towers_count": towersPerArea[a.name],
		})
	}
	p.buildServices()

	p.collections["appliances"] = mustReadCSV("appliances", appliancesCSV)
	p.collections["tower_features"] = mustReadCSV("tower_features", towerFeaturesCSV)
	return p
}

// buildTowers generates towers with their blocks and unit designs and
// returns the number of towers per area.
func (p *Portfolio) buildTowers() map[string]int {
	perArea := map[string]int{}
	towerID, blockID, designID := 0, 0, 0

	for i, a := range areaSeeds {
		count := 2 + i%3
		for j := 0; j < count; j++ {
			towerID++
			names := towerNames[(i+j)%len(towerNames)]
			name := a.name + " " + names.en

			floors := 12 + (towerID*7)%60
			year := 2010 + (towerID*3)%22
			nBlocks := 1 + towerID%4

			units := 0
			for k := 0; k < nBlocks; k++ {
				blockID++
				blockFloors := max(4, floors-k*3)
				blockUnits := blockFloors * (4 + blockID%3)
				units += blockUnits
				p.add("blocks", map[string]any{
					"id":          blockID,
					"name":        fmt.Sprintf("Block %c", 'A'+k),
					"tower":       name,
					"floors":      blockFloors,
					"units":       blockUnits,
					"has_parking": blockID%3 != 0,
				})
			}

			nDesigns := 2 + towerID%3
			rate := 1100 + (towerID%8)*150
			for k := 0; k < nDesigns; k++ {
				designID++
				d := designTypes[(towerID+k)%len(designTypes)]
				sqft := d.sqft + (designID%5)*25
				p.add("designs", map[string]any{
					"id":        designID,
					"name":      d.label + " " + designVariants[designID%len(designVariants)],
					"type":      d.label,
					"bedrooms":  d.bedrooms,
					"bathrooms": d.baths,
					"area_sqft": sqft,
					"price":     sqft * rate,
					"tower":     name,
				})
			}

			p.add("towers", map[string]any{
				"id":              towerID,
				"name":            name,
				"name_ar":         names.ar + " " + a.nameAr,
				"area":            a.name,
				"city":            a.city,
				"floors":          floors,
				"blocks_count":    nBlocks,
				"units":           units,
				"completion_year": year,
				"status":          towerStatus(year),
			})
			perArea[a.name]++
		}
	}
	return perArea
}

func (p *Portfolio) buildServices() {
	id := 0
	for i, a := range areaSeeds {
		count := 3 + i%3
		for k := 0; k < count; k++ {
			id++
			kind := serviceKinds[(i+k)%len(serviceKinds)]
			p.add("area_services", map[string]any{
				"id":          id,
				"name":        a.name + " " + kind.en,
				"name_ar":     kind.ar + " " + a.nameAr,
				"category":    kind.category,
				"area":        a.name,
				"distance_km": round1(0.3 + float64((id*7)%40)/10),
				"rating":      round1(math.Min(5, 3.4+float64((id*3)%17)/10)),
			})
		}
	}
}

func towerStatus(year int) string {
	switch {
	case year <= 2025:
		return "completed"
	case year <= 2027:
		return "under_construction"
	default:
		return "planned"
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func (p *Portfolio) add(collection string, fields map[string]any) {
	p.collections[collection] = append(p.collections[collection], records.MustNew(fields))
}

func mustReadCSV(name, data string) []records.Record {
	rows, err := datasources.ReadCSV(strings.NewReader(data), ',')
	if err != nil {
		panic(fmt.Sprintf("failed to import %s CSV: %v", name, err))
	}
	return rows
}

// Collections returns the names of the generated collections.
func (p *Portfolio) Collections() []string {
	out := make([]string, 0, len(p.collections))
	for name := range p.collections {
		out = append(out, name)
	}
	return out
}

// Records returns the records of a collection.
func (p *Portfolio) Records(collection string) ([]records.Record, bool) {
	rows, ok := p.collections[collection]
	return rows, ok
}
