package farelink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farelink_admin/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestListBusesForwardsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/buses", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		io.WriteString(w, `{"buses":[{"id":7,"name":"Coach","numberplate":"ABC 1"},{"_id":"m-2","name":"Mini"}]}`)
	})

	buses, err := c.WithToken("tok-1").ListBuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Bus{
		{ID: "7", Name: "Coach", NumberPlate: "ABC 1"},
		{ID: "m-2", Name: "Mini"},
	}, buses)
}

func TestWithTokenDoesNotMutateClient(t *testing.T) {
	c := NewClient("http://x", time.Second)
	_ = c.WithToken("tok")
	assert.Empty(t, c.token)
}

func TestListRoutesNormalizesShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"routes":[
			{"route_id":11,"from":"harare","to":"bulawayo",
			 "bus":{"id":"b1","name":"Coach 1","numberplate":"ABC 123"},
			 "stations":["harare","bulawayo",{"id":"s-3","name":"Gweru","lat":-19.45,"lng":29.82}],
			 "subroutes":[{"subrouteid":"HARBUL-001","from":"HARARE","to":"BULAWAYO","fare":12,"kidsFare":"6.5"}]},
			{"id":"r-2","departure":"mutare","destination":"harare",
			 "buses":[{"id":"b1","name":"Coach 1"},{"id":"b2","name":"Coach 2"}],
			 "subroutes":[{"subroute_id":"MUTHAR-001","from":"MUTARE","to":"HARARE","fare":"abc","kids_fare":null}]},
			{"id":"r-3","from":"A","to":"B","bus_ids":[4,5]}
		]}`)
	})

	routes, err := c.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 3)

	r1 := routes[0]
	assert.Equal(t, "11", r1.ID)
	assert.Equal(t, "HARARE", r1.Departure)
	assert.Equal(t, "BULAWAYO", r1.Destination)
	assert.Equal(t, []string{"b1"}, r1.BusIDs)
	assert.Equal(t, []string{"ABC 123"}, r1.BusPlates)
	require.Len(t, r1.Stations, 3)
	assert.Equal(t, models.Station{ID: "11-0", Name: "HARARE"}, r1.Stations[0])
	assert.Equal(t, "s-3", r1.Stations[2].ID)
	assert.Equal(t, "GWERU", r1.Stations[2].Name)
	assert.True(t, r1.Stations[2].HasCoordinates())
	assert.Equal(t, models.SubRoute{Code: "HARBUL-001", From: "HARARE", To: "BULAWAYO", Fare: "12.00", KidsFare: "6.50"}, r1.SubRoutes[0])

	r2 := routes[1]
	assert.Equal(t, "r-2", r2.ID)
	assert.Equal(t, "MUTARE", r2.Departure)
	assert.Equal(t, []string{"b1", "b2"}, r2.BusIDs)
	assert.Equal(t, []string{"Coach 1", "Coach 2"}, r2.BusNames)
	assert.Equal(t, "MUTHAR-001", r2.SubRoutes[0].Code)
	assert.Equal(t, "0.00", r2.SubRoutes[0].Fare)
	assert.Equal(t, "0.00", r2.SubRoutes[0].KidsFare)

	r3 := routes[2]
	assert.Equal(t, []string{"4", "5"}, r3.BusIDs)
	assert.Equal(t, []string{"", ""}, r3.BusNames)
	assert.Empty(t, r3.Stations)
}

func TestListRoutesUppercasesLegEnds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"routes":[{"id":"r-1","from":"Harare","to":"Bulawayo",
			"stations":["Harare","Bulawayo"],
			"subroutes":[{"subrouteid":"HARBUL-001","from":"Harare","to":" bulawayo ","fare":"12.00","kidsFare":"6.00"}]}]}`)
	})

	routes, err := c.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes[0].SubRoutes, 1)
	leg := routes[0].SubRoutes[0]
	assert.Equal(t, "HARARE", leg.From)
	assert.Equal(t, "BULAWAYO", leg.To)
	assert.Equal(t, routes[0].Stations[0].Name, leg.From)
	assert.Equal(t, routes[0].Stations[1].Name, leg.To)
}

func TestGetRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"routes":[{"id":"r-1","from":"A","to":"B"}]}`)
	})

	route, err := c.GetRoute(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "A", route.Departure)

	_, err = c.GetRoute(context.Background(), "r-9")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestCreateRouteSendsPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/routes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"route":{"route_id":"r-new","from":"A","to":"B"}}`)
	})

	route, err := c.CreateRoute(context.Background(), RoutePayload{
		BusIDs:         []string{"b1"},
		Departure:      "A",
		Destination:    "B",
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		Stations:       []models.Station{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}},
		SubRoutes:      []SubRoutePayload{{Code: "A-B-001", From: "A", To: "B", Fare: "1.00", KidsFare: "0.50"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "r-new", route.ID)

	assert.Equal(t, []any{"b1"}, got["bus_ids"])
	assert.Equal(t, "USD", got["currency_code"])
	sub := got["subroutes"].([]any)[0].(map[string]any)
	assert.Equal(t, "A-B-001", sub["subrouteid"])
	assert.Equal(t, "0.50", sub["kidsFare"])
	assert.NotContains(t, sub, "isNew")
}

func TestUpdateRouteFillsMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/routes/r-1", r.URL.Path)
		io.WriteString(w, `{"from":"a","to":"b"}`)
	})

	route, err := c.UpdateRoute(context.Background(), "r-1", RoutePayload{})
	require.NoError(t, err)
	assert.Equal(t, "r-1", route.ID)
	assert.Equal(t, "A", route.Departure)
}

func TestDeleteRoute(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"acknowledged", `{"success":true}`, nil},
		{"empty body", ``, nil},
		{"rejected", `{"success":false,"message":"route has trips"}`, ErrDeleteRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				io.WriteString(w, tt.body)
			})
			err := c.DeleteRoute(context.Background(), "r-1")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusBadRequest, `{"message":"departure is required"}`, "departure is required"},
		{"error field", http.StatusUnauthorized, `{"error":"token expired"}`, "token expired"},
		{"no body", http.StatusInternalServerError, ``, "request failed with status 500 (Internal Server Error)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.ListCurrencies(context.Background())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListBuses(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrencies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"code":"ZWG","symbol":"ZiG","rate":13.6},{"code":"USD","symbol":"$","rate":1,"isBase":true}]`)
	})

	currencies, err := c.ListCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 2)

	cur, err := DefaultCurrency(currencies)
	require.NoError(t, err)
	assert.Equal(t, "USD", cur.Code, "falls back to the base currency")

	currencies[0].IsDefault = true
	cur, err = DefaultCurrency(currencies)
	require.NoError(t, err)
	assert.Equal(t, "ZWG", cur.Code)

	_, err = DefaultCurrency([]models.Currency{{Code: "EUR"}})
	assert.ErrorIs(t, err, ErrNoDefaultCurrency)
}
