package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	require.Equal(t, "홍길동", CleanText(" 홍길동\n"))
	require.Equal(t, "a b", CleanText("a \t  b"))
}

func TestTables(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table class="wikitable">
			<tr><th>직책</th><th>이름</th></tr>
			<tr><td>서울특별시장</td><td>홍길동</td></tr>
			<tr><td>부산광역시장</td><td>김철수</td></tr>
		</table>
		<table class="plain"><tr><td>무시</td></tr></table>
		<table class="wikitable">
			<tr><td colspan="4">경기도</td></tr>
		</table>
	`))
	require.NoError(t, err)

	tables := Tables(doc, "table.wikitable")
	require.Len(t, tables, 2)

	require.Len(t, tables[0].Rows, 3)
	require.True(t, tables[0].Rows[0].Header)
	require.Empty(t, tables[0].Rows[0].Cells)
	require.Equal(t, []string{"서울특별시장", "홍길동"}, tables[0].Rows[1].Cells)

	require.Len(t, tables[1].Rows, 1)
	require.False(t, tables[1].Rows[0].Header)
	require.Equal(t, []string{"경기도"}, tables[1].Rows[0].Cells)
}
