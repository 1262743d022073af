package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/domain"
)

func TestParseMaybeJSONP(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"plain json", `{"Trims":[{"model_name":"335i"}]}`, 1},
		{"jsonp wrapped", `?({"Trims":[{"model_name":"335i"},{"model_name":"328i"}]});`, 2},
		{"callback name", `carquery({"Trims":[]});`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out carQueryTrims
			require.NoError(t, parseMaybeJSONP([]byte(tt.body), &out))
			assert.Len(t, out.Trims, tt.want)
		})
	}
}

func TestParseMaybeJSONPArray(t *testing.T) {
	var out []dto.TrimDTO
	require.NoError(t, parseMaybeJSONP([]byte(`cb([{"model_name":"Civic"}])`), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Civic", out[0].ModelName)
}

func TestParseMaybeJSONPGarbage(t *testing.T) {
	var out carQueryTrims
	assert.Error(t, parseMaybeJSONP([]byte("not json at all"), &out))
	assert.Error(t, parseMaybeJSONP([]byte("   "), &out))
}

func TestGetTrims(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getTrims", r.URL.Query().Get("cmd"))
		assert.Equal(t, "BMW", r.URL.Query().Get("make"))
		assert.Equal(t, "2014", r.URL.Query().Get("year"))
		w.Write([]byte(`?({"Trims":[{"model_name":"335i","model_year":"2014"}]});`))
	}))
	defer srv.Close()

	client := NewCarQueryClient(srv.URL)
	trims, err := client.GetTrims(context.Background(), "BMW", 2014)
	require.NoError(t, err)
	require.Len(t, trims, 1)
	assert.Equal(t, "335i", trims[0].ModelName)
}

func TestGetTrimsRequiresMake(t *testing.T) {
	client := NewCarQueryClient("http://localhost:0")
	_, err := client.GetTrims(context.Background(), "  ", 2014)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
