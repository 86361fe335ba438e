// Package regions holds the naming rules for Korean administrative
// regions: the official names of the 17 metropolitan-level regions,
// the title suffixes that turn an office name into a region name, and
// the region suffixes that have to be stripped before two sources can
// be compared by containment.
package regions

import "strings"

// short names as they arrive from callers mapped to the official
// region name used by the scraped tables and the election APIs
var officialNames = map[string]string{
	"서울":  "서울특별시",
	"부산":  "부산광역시",
	"대구":  "대구광역시",
	"인천":  "인천광역시",
	"광주":  "광주광역시",
	"대전":  "대전광역시",
	"울산":  "울산광역시",
	"세종":  "세종특별자치시",
	"경기도": "경기도",
	"강원도": "강원특별자치도",
	"충북":  "충청북도",
	"충남":  "충청남도",
	"전북":  "전북특별자치도",
	"전남":  "전라남도",
	"경북":  "경상북도",
	"경남":  "경상남도",
	"제주":  "제주특별자치도",
}

// Normalize maps a short caller-facing region name ("서울", "강원도") to
// its official form ("서울특별시", "강원특별자치도"). Names without a
// mapping are returned unchanged.
func Normalize(name string) string {
	if official, ok := officialNames[name]; ok {
		return official
	}
	return name
}

// longest first so 특별자치시/특별자치도 never get half-stripped as 시/도
var metroSuffixes = []string{"특별자치시", "특별자치도", "특별시", "광역시", "도"}

// StripMetroSuffix removes the metropolitan-region suffix from a region
// name: "경기도" -> "경기", "서울특별시" -> "서울". Winner records and
// scraped rosters spell regions differently, so containment checks are
// done on the stripped forms.
func StripMetroSuffix(region string) string {
	for _, suffix := range metroSuffixes {
		if trimmed := strings.TrimSuffix(region, suffix); trimmed != region {
			return trimmed
		}
	}
	return region
}

// 구청장 ends with 청장, so 청장 must come before 시장/군수
var titleSuffixes = []string{"청장", "시장", "군수"}

// StripTitleSuffix removes the trailing office title from a basic-level
// position: "종로구청장" -> "종로구", "수원시장" -> "수원".
func StripTitleSuffix(position string) string {
	for _, suffix := range titleSuffixes {
		if trimmed := strings.TrimSuffix(position, suffix); trimmed != position {
			return trimmed
		}
	}
	return position
}

// MetroRegionFromTitle derives the region name from a metropolitan
// office title: "서울특별시장" -> "서울특별시", "경기도지사" -> "경기도".
// Anything that is not a 시장/지사 title comes back unchanged.
func MetroRegionFromTitle(position string) string {
	if strings.HasSuffix(position, "시장") {
		return strings.TrimSuffix(position, "장")
	}
	if strings.HasSuffix(position, "도지사") {
		return strings.TrimSuffix(position, "지사")
	}
	return position
}

// IsMetropolitan reports whether a derived region name belongs to the
// closed set of metropolitan-region shapes. Rows whose derived region
// fails this are scraping artifacts, not offices.
func IsMetropolitan(region string) bool {
	if region == "" {
		return false
	}
	return strings.Contains(region, "특별시") ||
		strings.Contains(region, "광역시") ||
		strings.Contains(region, "특별자치") ||
		strings.HasSuffix(region, "도")
}
