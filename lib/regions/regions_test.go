package regions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "서울특별시", Normalize("서울"))
	require.Equal(t, "강원특별자치도", Normalize("강원도"))
	require.Equal(t, "경기도", Normalize("경기도"))
	// unmapped names pass through
	require.Equal(t, "독도", Normalize("독도"))
}

func TestStripMetroSuffix(t *testing.T) {
	require.Equal(t, "경기", StripMetroSuffix("경기도"))
	require.Equal(t, "서울", StripMetroSuffix("서울특별시"))
	require.Equal(t, "세종", StripMetroSuffix("세종특별자치시"))
	require.Equal(t, "강원", StripMetroSuffix("강원특별자치도"))
	require.Equal(t, "부산", StripMetroSuffix("부산광역시"))
	require.Equal(t, "경기", StripMetroSuffix("경기"))
}

func TestStripTitleSuffix(t *testing.T) {
	require.Equal(t, "종로구", StripTitleSuffix("종로구청장"))
	require.Equal(t, "수원", StripTitleSuffix("수원시장"))
	require.Equal(t, "양평", StripTitleSuffix("양평군수"))
	require.Equal(t, "의문의직책", StripTitleSuffix("의문의직책"))
}

func TestMetroRegionFromTitle(t *testing.T) {
	require.Equal(t, "서울특별시", MetroRegionFromTitle("서울특별시장"))
	require.Equal(t, "경기도", MetroRegionFromTitle("경기도지사"))
	require.Equal(t, "세종특별자치시", MetroRegionFromTitle("세종특별자치시장"))
	require.Equal(t, "비고", MetroRegionFromTitle("비고"))
}

func TestIsMetropolitan(t *testing.T) {
	for _, region := range []string{
		"서울특별시", "부산광역시", "세종특별자치시", "전북특별자치도", "경기도",
	} {
		require.True(t, IsMetropolitan(region), region)
	}
	require.False(t, IsMetropolitan(""))
	require.False(t, IsMetropolitan("정당"))
	require.False(t, IsMetropolitan("홍길동"))
}
