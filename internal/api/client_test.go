package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/ctxutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, zap.NewNop().Sugar())
}

func TestAuthorizationHeader(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]any{})
	})
	ctx := context.Background()

	if _, err := c.Periodos(ctx); err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("sin sesión no debe viajar credencial: %q", got)
	}

	c.SetToken("abc123")
	if _, err := c.Periodos(ctx); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer abc123" {
		t.Fatalf("cabecera inesperada: %q", got)
	}

	c.ClearToken()
	if _, err := c.Periodos(ctx); err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("tras cerrar sesión la credencial no debe viajar: %q", got)
	}
}

func TestRequestID(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode([]any{})
	})
	if _, err := c.Periodos(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Fatal("cada petición debe llevar X-Request-Id")
	}

	// un id ya presente en el contexto se reenvía tal cual
	ctx := ctxutil.WithRequestID(context.Background(), "req-front-1")
	if _, err := c.Periodos(ctx); err != nil {
		t.Fatal(err)
	}
	if got != "req-front-1" {
		t.Fatalf("el id del contexto debe propagarse: %q", got)
	}
}

func TestErrorBody(t *testing.T) {
	t.Run("backend_message_surfaces", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   "El período es requerido",
				"details": []string{"period"},
			})
		})
		_, err := c.ListEvaluations(context.Background(), ListParams{Page: 1, Limit: 10})
		if err == nil {
			t.Fatal("esperaba rechazo 422")
		}
		var ae *Error
		if !errors.As(err, &ae) {
			t.Fatalf("esperaba *Error, obtuve %T", err)
		}
		if ae.Status != 422 || ae.Message != "El período es requerido" {
			t.Fatalf("cuerpo de error mal extraído: %+v", ae)
		}
		if Message(err, "fallback") != "El período es requerido" {
			t.Fatal("Message debe preferir el texto del backend")
		}
		if d := Details(err); len(d) != 1 || d[0] != "period" {
			t.Fatalf("detalles mal extraídos: %v", d)
		}
	})

	t.Run("unparseable_body_falls_back", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>502</html>"))
		})
		_, err := c.Periodos(context.Background())
		var ae *Error
		if !errors.As(err, &ae) || ae.Status != 500 {
			t.Fatalf("esperaba *Error 500: %v", err)
		}
		if Message(err, "Ocurrió un error") != "Ocurrió un error" {
			t.Fatal("sin mensaje del backend gana el fallback")
		}
	})

	t.Run("transport_error", func(t *testing.T) {
		c := New("http://127.0.0.1:1", zap.NewNop().Sugar())
		_, err := c.Periodos(context.Background())
		if err == nil {
			t.Fatal("esperaba error de transporte")
		}
		var ae *Error
		if errors.As(err, &ae) {
			t.Fatal("un fallo de transporte no es un rechazo del backend")
		}
		if Message(err, "Sin conexión") != "Sin conexión" {
			t.Fatal("para transporte siempre gana el fallback")
		}
	})
}

func TestListEvaluationsQuery(t *testing.T) {
	var q map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q = map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	ctx := context.Background()

	if _, err := c.ListEvaluations(ctx, ListParams{Page: 2, Limit: 25}); err != nil {
		t.Fatal(err)
	}
	if q["page"] != "2" || q["limit"] != "25" {
		t.Fatalf("paginación mal serializada: %v", q)
	}
	if _, ok := q["period"]; ok {
		t.Fatal("un filtro en cero no debe viajar")
	}
	if _, ok := q["search"]; ok {
		t.Fatal("la búsqueda vacía no debe viajar")
	}

	if _, err := c.ListEvaluations(ctx, ListParams{Page: 1, Limit: 10, Period: 7, TypeSurvey: 3, Search: "práctica"}); err != nil {
		t.Fatal(err)
	}
	if q["period"] != "7" || q["type_survey"] != "3" || q["search"] != "práctica" {
		t.Fatalf("filtros mal serializados: %v", q)
	}
}

func TestIsSystemErr(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{422, false},
		{401, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, c := range cases {
		if got := isSystemErr(&Error{Status: c.status}); got != c.want {
			t.Fatalf("status %d: esperaba %v", c.status, got)
		}
	}
	if !isSystemErr(errors.New("dial tcp")) {
		t.Fatal("los errores de transporte son de sistema")
	}
}
