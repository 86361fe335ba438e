package nec

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kpolitics-backend/lib/scrapers"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientOptions{
		BaseUrl:     server.URL,
		ServiceKey:  "test-key",
		PageBackoff: time.Millisecond,
	})
}

func envelopeJson(items string) string {
	return fmt.Sprintf(`{
		"response": {
			"header": {"resultCode": "INFO-00", "resultMsg": "NORMAL SERVICE"},
			"body": {"items": %s, "totalCount": 0}
		}
	}`, items)
}

func winnerItemsJson(count int, offset int) string {
	var items []string
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(
			`{"sgId": "20220601", "sgTypecode": "3", "sdName": "지역%d", "name": "당선자%d", "huboid": "h%d", "elcoYn": "Y"}`,
			offset+i, offset+i, offset+i))
	}
	return fmt.Sprintf(`{"item": [%s]}`, strings.Join(items, ","))
}

func TestFetchWinnersPaging(t *testing.T) {
	var calls int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "test-key", r.URL.Query().Get("serviceKey"))
		require.Equal(t, "20220601", r.URL.Query().Get("sgId"))
		switch r.URL.Query().Get("pageNo") {
		case "1":
			fmt.Fprint(w, envelopeJson(winnerItemsJson(100, 0)))
		case "2":
			fmt.Fprint(w, envelopeJson(winnerItemsJson(30, 100)))
		default:
			t.Errorf("unexpected page %s", r.URL.Query().Get("pageNo"))
		}
	}))

	winners, err := client.FetchWinners(context.Background(), LocalElection2022, TypeMetropolitan)
	require.NoError(t, err)
	require.Len(t, winners, 130)
	// the short second page ends paging, no probe for page 3
	require.Equal(t, 2, calls)
	require.Equal(t, "당선자0", winners[0].Name)
	require.True(t, winners[0].Elected())
}

func TestFetchWinnersPartialOnError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNo") == "1" {
			fmt.Fprint(w, envelopeJson(winnerItemsJson(100, 0)))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	winners, err := client.FetchWinners(context.Background(), LocalElection2022, TypeMetropolitan)
	require.ErrorIs(t, err, scrapers.ErrSourceUnavailable)
	// the first page survives the failure
	require.Len(t, winners, 100)
}

func TestDecodeItemsSingleObject(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelopeJson(`{"item": {"name": "홍길동", "sgTypecode": "4", "elcoYn": "Y", "sgId": "20220601"}}`))
	}))

	candidates, err := client.SearchCandidates(context.Background(), "홍길동")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "홍길동", candidates[0].Name)
	require.True(t, candidates[0].ElectedGovernor())
}

func TestDecodeItemsEmpty(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelopeJson(`""`))
	}))

	candidates, err := client.SearchCandidates(context.Background(), "없는사람")
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestSearchCandidatesMemo(t *testing.T) {
	var calls int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, envelopeJson(`{"item": [{"name": "홍길동", "sgTypecode": "3", "elcoYn": "Y"}]}`))
	}))

	for i := 0; i < 3; i++ {
		candidates, err := client.SearchCandidates(context.Background(), "홍길동")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
	}
	require.Equal(t, 1, calls)

	_, err := client.SearchCandidates(context.Background(), "김철수")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestFetchPledgeSheet(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "h123", r.URL.Query().Get("cnddtId"))
		fmt.Fprint(w, envelopeJson(`{"item": {
			"krName": "홍길동", "partyName": "무소속", "sidoName": "경기도",
			"prmsCnt": "2",
			"prmsOrd1": "1", "prmsRealmName1": "교통", "prmsTitle1": "지하철 연장", "prmmCont1": "노선 연장 추진",
			"prmsOrd2": "2", "prmsRealmName2": "복지", "prmsTitle2": "돌봄 확대", "prmmCont2": "돌봄센터 확충"
		}}`))
	}))

	sheet, err := client.FetchPledgeSheet(context.Background(), LocalElection2022, TypeMetropolitan, "h123")
	require.NoError(t, err)
	require.NotNil(t, sheet)

	data, err := ParsePledgeSheet(sheet)
	require.NoError(t, err)
	require.Equal(t, "홍길동", data.Name)
	require.Equal(t, 2, data.Count)
	require.Len(t, data.Pledges, 2)
	require.Equal(t, Pledge{Rank: 1, Domain: "교통", Title: "지하철 연장", Content: "노선 연장 추진"}, data.Pledges[0])
}

func TestParsePledgeSheetStopsAtGap(t *testing.T) {
	data, err := ParsePledgeSheet(map[string]any{
		"krName":     "홍길동",
		"prmsOrd1":   "1",
		"prmsTitle1": "첫번째",
		// rank 2 absent: rank 3 must not be read
		"prmsOrd3":   "3",
		"prmsTitle3": "세번째",
	})
	require.NoError(t, err)
	require.Len(t, data.Pledges, 1)
	require.Equal(t, "첫번째", data.Pledges[0].Title)
}

func TestParsePledgeSheetNil(t *testing.T) {
	_, err := ParsePledgeSheet(nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, scrapers.ErrMalformedSource))
}
