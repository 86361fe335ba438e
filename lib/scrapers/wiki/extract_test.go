package wiki

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kpolitics-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadTables(t *testing.T, fixture string) []htmlutil.Table {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", fixture))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)
	return htmlutil.Tables(doc, TableSelector)
}

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, StatusIncumbent, DeriveStatus("", "홍길동"))
	require.Equal(t, StatusActing, DeriveStatus("부지사 권한대행", "홍길동"))
	require.Equal(t, StatusActing, DeriveStatus("직무대행 체제", "홍길동"))
	require.Equal(t, StatusActing, DeriveStatus("", "홍길동(대행)"))
}

func TestExtractMetropolitan(t *testing.T) {
	tables := loadTables(t, "metropolitan.html")
	result := ExtractMetropolitan(context.Background(), tables)

	require.Len(t, result.Officials, 4)

	seoul := result.Officials[0]
	require.Equal(t, "서울특별시", seoul.Region)
	require.Equal(t, "서울특별시장", seoul.Position)
	require.Equal(t, "오세훈", seoul.Name)
	require.Equal(t, "국민의힘", seoul.Party)
	require.Equal(t, DefaultInaugurationDate, seoul.InaugurationDate)
	require.Equal(t, StatusIncumbent, seoul.Status)

	gyeonggi := result.Officials[2]
	require.Equal(t, "경기도", gyeonggi.Region)

	acting := result.Officials[3]
	require.Equal(t, "전북특별자치도", acting.Region)
	require.Equal(t, StatusActing, acting.Status)
	// empty party cell falls back to independent
	require.Equal(t, "무소속", acting.Party)

	// the list-link row looks like data but is not an office
	require.Len(t, result.Dropped, 1)
	require.Equal(t, "역대 시장 목록", result.Dropped[0].Cells[0])
}

func TestBasicSchemaExtract(t *testing.T) {
	tables := loadTables(t, "basic.html")
	result := DefaultBasicSchema().Extract(context.Background(), tables)

	require.Len(t, result.Officials, 4)

	jongno := result.Officials[0]
	require.Equal(t, "서울특별시", jongno.Region)
	require.Equal(t, "종로구청장", jongno.Position)
	require.Equal(t, "정문헌", jongno.Name)

	// the section header row overrides the table-index mapping, which
	// would have said 부산광역시 for the second table
	suwon := result.Officials[2]
	require.Equal(t, "경기도", suwon.Region)
	require.Equal(t, "수원시장", suwon.Position)

	acting := result.Officials[3]
	require.Equal(t, StatusActing, acting.Status)
	require.Equal(t, "무소속", acting.Party)
}

func TestDefaultBasicSchemaSkipsSejong(t *testing.T) {
	schema := DefaultBasicSchema()
	require.Len(t, schema.TableOrder, 15)
	require.NotContains(t, schema.TableOrder, "세종특별자치시")
	require.Equal(t, "미분류", schema.regionForTable(len(schema.TableOrder)))
}
