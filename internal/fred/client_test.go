package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const unrate = `observation_date,UNRATE
1947-12-01,.
1948-01-01,3.4
1948-02-01,3.8
1948-03-01,4.0
`

func TestReadCSV(t *testing.T) {
	obs, err := ReadCSV(strings.NewReader(unrate))
	require.NoError(t, err)
	require.Len(t, obs, 4)

	assert.True(t, obs[0].Missing(), "'.' marks a missing observation")
	assert.True(t, obs[1].Date.Equal(time.Date(1948, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 3.4, obs[1].Value, 0)
	assert.InDelta(t, 4.0, obs[3].Value, 0)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"bad date", "DATE,X\n01/01/1948,1\n", "parsing date"},
		{"bad value", "DATE,X\n1948-01-01,abc\n", "parsing value"},
		{"wrong arity", "DATE,X\n1948-01-01,1,2\n", "reading FRED CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	obs, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, obs)
}

func TestClientSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graph/fredgraph.csv", r.URL.Path)
		assert.Equal(t, "UNRATE", r.URL.Query().Get("id"))
		assert.Equal(t, "1948-01-01", r.URL.Query().Get("cosd"))
		_, _ = w.Write([]byte(unrate))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client(), zap.NewNop())
	s, err := c.Series(context.Background(), "UNRATE", time.Date(1948, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "UNRATE", s.ID)
	require.Len(t, s.Observations, 3, "observations before start are dropped")
	assert.InDelta(t, 3.4, s.Observations[0].Value, 0)
}

func TestClientSeries_NoStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("cosd"))
		_, _ = w.Write([]byte(unrate))
	}))
	defer srv.Close()

	s, err := NewClient(srv.URL, srv.Client(), nil).Series(context.Background(), "UNRATE", time.Time{})
	require.NoError(t, err)
	assert.Len(t, s.Observations, 4)
}

func TestClientSeries_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such series", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client(), nil).Series(context.Background(), "NOPE", time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
	assert.Contains(t, err.Error(), "404")
}

func TestClientSeries_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(unrate))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, srv.Client(), nil).Series(ctx, "UNRATE", time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
}
