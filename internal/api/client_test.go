package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL+"/api/v1"), WithLogger(zaptest.NewLogger(t))), srv
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewClient()
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
		assert.NotNil(t, c.http)
		assert.NotNil(t, c.logger)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c := NewClient(WithBaseURL("http://example.test/api/v1/"))
		assert.Equal(t, "http://example.test/api/v1", c.BaseURL())
	})
}

func TestGetJSON(t *testing.T) {
	t.Run("200 decodes body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/analises/x", r.URL.Path)
			w.Write([]byte(`{"a":1}`))
		})

		var out map[string]any
		err := c.GetJSON(context.Background(), "/analises/x", &out)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, out)
	})

	t.Run("404 carries status code", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		var out map[string]any
		err := c.GetJSON(context.Background(), "/municipios/0", &out)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.ErrorIs(t, err, ErrRequestFailed)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
	})

	t.Run("500 is a request failure", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := c.GetJSON(context.Background(), "/analises/evolucao-temporal", &EvolucaoTemporal{})
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("network failure is a request failure", func(t *testing.T) {
		c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()

		var out map[string]any
		err := c.GetJSON(context.Background(), "/anything", &out)
		assert.ErrorIs(t, err, ErrRequestFailed)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})

		var out map[string]any
		err := c.GetJSON(context.Background(), "/x", &out)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("payload validated at the boundary", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"anos":[2020,2021],"atendimento_agua":[1],"coleta_esgoto":[1,2],"tratamento_esgoto":[1,2]}`))
		})

		var out EvolucaoTemporal
		err := c.GetJSON(context.Background(), "/analises/evolucao-temporal", &out)
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.Contains(t, err.Error(), "atendimento_agua")
	})
}

func TestDoHeadersAndBody(t *testing.T) {
	t.Run("default content type", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{}`))
		})

		_, err := c.Do(context.Background(), "/", nil)
		require.NoError(t, err)
	})

	t.Run("caller headers override defaults", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
			assert.Equal(t, "abc", r.Header.Get("X-Trace"))
			w.Write([]byte(`{}`))
		})

		_, err := c.Do(context.Background(), "/", &RequestOptions{
			Headers: map[string]string{"Content-Type": "text/plain", "X-Trace": "abc"},
		})
		require.NoError(t, err)
	})

	t.Run("method and JSON body", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			raw, _ := io.ReadAll(r.Body)
			var got map[string]string
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "Sobral", got["nome"])
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id_municipio":"2312908","nome":"Sobral"}`))
		})

		var m Municipio
		err := c.FetchJSON(context.Background(), "/municipios", &RequestOptions{
			Method: http.MethodPost,
			Body:   map[string]string{"nome": "Sobral"},
		}, &m)
		require.NoError(t, err)
		assert.Equal(t, "2312908", m.ID)
	})
}

func TestPing(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1", r.URL.Path)
		w.Write([]byte(`{"name":"api"}`))
	})
	assert.NoError(t, c.Ping(context.Background()))
}

func TestEvolucaoMunicipioSeries(t *testing.T) {
	v := 50.0
	e := EvolucaoMunicipio{
		MunicipioID: "2304400",
		Evolucao: []EvolucaoPonto{
			{Ano: 2020, AtendimentoAgua: &v},
			{Ano: 2021, ColetaEsgoto: &v},
		},
	}

	s := e.Series()

	assert.Equal(t, []int{2020, 2021}, s.Anos)
	assert.NoError(t, s.Validate())
	assert.Equal(t, &v, s.AtendimentoAgua[0])
	assert.Nil(t, s.AtendimentoAgua[1])
	assert.Equal(t, &v, s.ColetaEsgoto[1])
}
