package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/scrapers/wiki"
	"kpolitics-backend/lib/testutil"
	"kpolitics-backend/services/pledges"
	pledgesdb "kpolitics-backend/services/pledges/db"
	"kpolitics-backend/services/roster"
	rosterdb "kpolitics-backend/services/roster/db"

	"github.com/stretchr/testify/require"
)

const rosterHtml = `
<table class="wikitable">
	<tr><th>직책</th><th>색</th><th>정당</th><th>이름</th><th>비고</th></tr>
	<tr><td>서울특별시장</td><td></td><td>국민의힘</td><td>오세훈</td><td></td></tr>
</table>`

func necEnvelope(items string) string {
	return fmt.Sprintf(`{"response": {"header": {"resultCode": "INFO-00"}, "body": {"items": %s}}}`, items)
}

func setupServer(t *testing.T) *httptest.Server {
	wikiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rosterHtml)
	}))
	t.Cleanup(wikiServer.Close)

	necServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/CndaSrchService/getCndaSrchInqire":
			if r.URL.Query().Get("name") != "오세훈" {
				fmt.Fprint(w, necEnvelope(`""`))
				return
			}
			fmt.Fprint(w, necEnvelope(`{"item": [{"sgId": "20220601", "sgTypecode": "3", "sidoName": "서울특별시", "name": "오세훈", "huboid": "h-seoul", "elcoYn": "Y"}]}`))
		case "/ElecPrmsInfoInqireService/getCnddtElecPrmsInfoInqire":
			fmt.Fprint(w, necEnvelope(`{"item": {"krName": "오세훈", "prmsCnt": "1", "prmsOrd1": "1", "prmsRealmName1": "주거", "prmsTitle1": "재개발 정상화", "prmmCont1": "재개발 절차를 정비한다"}}`))
		default:
			fmt.Fprint(w, necEnvelope(`""`))
		}
	}))
	t.Cleanup(necServer.Close)

	rosterSetup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "cmd/kpolitics-server:roster",
		DbSchema: rosterdb.Schema,
	})
	t.Cleanup(cleanup)
	pledgesSetup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "cmd/kpolitics-server:pledges",
		DbSchema: pledgesdb.Schema,
	})
	t.Cleanup(cleanup)

	necClient := nec.NewClient(nec.ClientOptions{
		BaseUrl:     necServer.URL,
		PageBackoff: time.Millisecond,
	})
	rosterService, err := roster.NewService(context.Background(), roster.ServiceOptions{
		Wiki: wiki.NewClient(wiki.ClientOptions{
			MetropolitanUrl: wikiServer.URL + "/metro",
			BasicUrl:        wikiServer.URL + "/basic",
		}),
		Nec:      necClient,
		Database: rosterSetup.DB,
	})
	require.NoError(t, err)
	t.Cleanup(rosterService.Close)

	mux := http.NewServeMux()
	RegisterHandlers(mux, rosterService, pledges.NewService(pledgesSetup.DB, necClient))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return res.StatusCode, payload
}

func TestHandlers(t *testing.T) {
	server := setupServer(t)

	// before any refresh the roster endpoints degrade to 503
	status, payload := get(t, server.URL+"/api/governors/metropolitan")
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Contains(t, payload["error"], "준비되지 않았습니다")

	res, err := http.Post(server.URL+"/api/governors/refresh", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	status, payload = get(t, server.URL+"/api/governors/metropolitan?region=서울")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(1), payload["count"])

	status, _ = get(t, server.URL+"/api/governors/basic?metro=부산")
	require.Equal(t, http.StatusOK, status)

	status, payload = get(t, server.URL+"/api/governors/previous/서울")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(1), payload["count"])

	status, _ = get(t, server.URL+"/api/governors/previous/제주")
	require.Equal(t, http.StatusNotFound, status)
}

func TestPledgeHandlers(t *testing.T) {
	server := setupServer(t)

	status, payload := get(t, server.URL+"/api/governors/pledges/오세훈")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "오세훈", payload["name"])

	status, _ = get(t, server.URL+"/api/governors/pledges/모르는사람")
	require.Equal(t, http.StatusNotFound, status)

	status, payload = get(t, server.URL+"/api/governors/pledges-debug/오세훈")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "오세훈", payload["governorName"])

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/governors/pledges-debug/오세훈", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	status, _ = get(t, server.URL+"/api/governors/pledges-debug/오세훈")
	require.Equal(t, http.StatusNotFound, status)
}
