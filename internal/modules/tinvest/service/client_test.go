package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

type recorded struct {
	path string
	auth string
	body map[string]any
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) add(c recorded) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

// newTestClient serves canned JSON per RPC method and records the requests.
func newTestClient(t *testing.T, replies map[string]string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = sonic.Unmarshal(raw, &body)
		rec.add(recorded{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})

		for method, reply := range replies {
			if r.URL.Path == "/rest/"+contractPrefix+serviceOf(method)+"/"+method {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, reply)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":5,"message":"not found"}`)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.TInvest.BaseURL = srv.URL + "/rest"
	cfg.TInvest.Token = "t-secret"
	cfg.TInvest.RequestTimeout = 5 * time.Second
	cfg.Assets.InstrumentType = "INSTRUMENT_TYPE_SHARE"
	cfg.Assets.InstrumentStatus = "INSTRUMENT_STATUS_BASE"

	c := NewClient(cfg)
	c.now = func() time.Time { return time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC) }
	return c, rec
}

func serviceOf(method string) string {
	if method == "GetAssets" {
		return instrumentsService
	}
	return marketDataService
}

func TestGetAssets_Flattens(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{"GetAssets": `{"assets":[
		{"uid":"a1","type":"ASSET_TYPE_SECURITY","name":"Sber","instruments":[
			{"uid":"i1","figi":"F1","instrumentType":"share","ticker":"SBER","classCode":"TQBR","positionUid":"p1"},
			{"uid":"","figi":"F0","instrumentType":"share","ticker":"BAD","classCode":"TQBR"}]},
		{"uid":"a2","type":"ASSET_TYPE_SECURITY","name":"Gazprom","instruments":[
			{"uid":"i2","figi":"F2","instrumentType":"bond","ticker":"GAZP01","classCode":"TQCB"}]}]}`})

	got, err := c.GetAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Instrument{
		{ID: "i1", Ticker: "SBER", FIGI: "F1", ClassCode: "TQBR", InstrumentType: "share", PositionUID: "p1"},
		{ID: "i2", Ticker: "GAZP01", FIGI: "F2", ClassCode: "TQCB", InstrumentType: "bond"},
	}, got)

	require.Len(t, calls.all(), 1)
	assert.Equal(t, "Bearer t-secret", calls.all()[0].auth)
	assert.Equal(t, "INSTRUMENT_TYPE_SHARE", calls.all()[0].body["instrumentType"])
	assert.Equal(t, "INSTRUMENT_STATUS_BASE", calls.all()[0].body["instrumentStatus"])
}

func TestCheckTradable(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"GetTradingStatuses": `{"tradingStatuses":[
		{"instrumentUid":"i1","tradingStatus":"SECURITY_TRADING_STATUS_NORMAL_TRADING","apiTradeAvailableFlag":true},
		{"instrumentUid":"i2","tradingStatus":"SECURITY_TRADING_STATUS_NORMAL_TRADING","apiTradeAvailableFlag":false},
		{"instrumentUid":"i3","tradingStatus":"SECURITY_TRADING_STATUS_BREAK_IN_TRADING","apiTradeAvailableFlag":true},
		{"instrumentUid":"zz","tradingStatus":"SECURITY_TRADING_STATUS_NORMAL_TRADING","apiTradeAvailableFlag":true}]}`})

	got, err := c.CheckTradable(context.Background(), []string{"i1", "i2", "i3", "i4"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"i1": true, "i2": false, "i3": false, "i4": false}, got)
}

func TestCheckTradable_EmptySkipsCall(t *testing.T) {
	c, calls := newTestClient(t, nil)

	got, err := c.CheckTradable(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, calls.all())
}

func TestGetEMA_RequestAndFallback(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{"GetTechAnalysis": `{"technicalIndicators":[
		{"timestamp":"2024-03-10T13:00:00Z","signal":{"units":"250","nano":500000000}},
		{"timestamp":"2024-03-10T14:00:00Z","middleBand":{"units":"251","nano":0}},
		{"timestamp":"2024-03-10T15:00:00Z"}]}`})

	got, err := c.GetEMA(context.Background(), "i1", 50, "1h")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 250.5, got[0].Value, 1e-9)
	assert.InDelta(t, 251.0, got[1].Value, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), got[1].Time)

	body := calls.all()[0].body
	assert.Equal(t, "INDICATOR_TYPE_EMA", body["indicatorType"])
	assert.Equal(t, "i1", body["instrumentUid"])
	assert.Equal(t, "INDICATOR_INTERVAL_ONE_HOUR", body["interval"])
	assert.Equal(t, "TYPE_OF_PRICE_CLOSE", body["typeOfPrice"])
	assert.EqualValues(t, 50, body["length"])
	// 1h, length 50: 8 days back from midnight
	assert.Equal(t, "2024-03-02T00:00:00Z", body["from"])
	assert.Equal(t, "2024-03-10T15:30:00Z", body["to"])
}

func TestGetEMA_BadNumber(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"GetTechAnalysis": `{"technicalIndicators":[
		{"timestamp":"2024-03-10T13:00:00Z","signal":{"units":"abc","nano":0}}]}`})

	_, err := c.GetEMA(context.Background(), "i1", 9, "1h")
	assert.Error(t, err)
}

func TestGetLastPrice(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{"GetLastPrices": `{"lastPrices":[
		{"figi":"F1","instrumentUid":"i1","price":{"units":"301","nano":250000000},"time":"2024-03-10T15:29:59Z"}]}`})

	p, err := c.GetLastPrice(context.Background(), "i1")
	require.NoError(t, err)
	assert.InDelta(t, 301.25, p, 1e-9)
	assert.Equal(t, "LAST_PRICE_EXCHANGE", calls.all()[0].body["lastPriceType"])

	_, err = c.GetLastPrice(context.Background(), "i2")
	assert.ErrorContains(t, err, "no last price")
}

func TestGetCandleCloses(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{"GetCandles": `{"candles":[
		{"close":{"units":"10","nano":0},"time":"2024-03-10T10:00:00Z","isComplete":true},
		{"close":{"units":"11","nano":100000000},"time":"2024-03-10T11:00:00Z","isComplete":false}]}`})

	from := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	got, err := c.GetCandleCloses(context.Background(), "i1", "1h", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 11.1, got[1].Value, 1e-9)
	assert.Equal(t, "CANDLE_INTERVAL_HOUR", calls.all()[0].body["interval"])
}

func TestCall_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.GetAssets(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "GetAssets", apiErr.Method)
}

func TestQuotation_Decimal(t *testing.T) {
	d, err := Quotation{Units: "-3", Nano: -500000000}.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "-3.5", d.String())

	d, err = Quotation{Nano: 1}.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "0.000000001", d.String())
}
