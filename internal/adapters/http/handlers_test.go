package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/equation"
	"svw.info/indices/internal/hint"
	"svw.info/indices/internal/infrastructure/storage"
	"svw.info/indices/internal/polynomial"
	"svw.info/indices/internal/ports"
	"svw.info/indices/internal/solver"
	"svw.info/indices/internal/usecase"
)

type fixedGen struct{ roots []domain.Root }

func (f fixedGen) Generate(_ context.Context, _ domain.Config, index int) (*domain.Stage, ports.Stats, error) {
	mult := make([]int, len(f.roots))
	for i := range mult {
		mult[i] = 1
	}
	c := polynomial.Expand(f.roots, mult)
	eq := equation.Format(c)
	st := &domain.Stage{Index: index, Roots: f.roots, Multiplicity: mult, Coefficients: c, Equation: eq, Display: equation.Wrap(eq)}
	for _, r := range f.roots {
		st.Rational = st.Rational || !r.IsInteger()
	}
	return st, ports.Stats{}, nil
}

// wire shapes as the browser sees them
type snapshotJSON struct {
	ID         string   `json:"id"`
	State      string   `json:"state"`
	Stage      int      `json:"stage"`
	Equation   string   `json:"equation"`
	Display    string   `json:"display"`
	Confirmed  []string `json:"confirmed"`
	Remaining  int      `json:"remaining"`
	Fractions  bool     `json:"fractions"`
	Candidates []struct {
		Label     string `json:"label"`
		Confirmed bool   `json:"confirmed"`
	} `json:"candidates"`
}

type resultJSON struct {
	Outcome     string   `json:"outcome"`
	Events      []string `json:"events"`
	State       string   `json:"state"`
	Reason      string   `json:"reason"`
	ResumeAfter int64    `json:"resumeAfter"`
}

func newServer(t *testing.T, roots ...domain.Root) *httptest.Server {
	t.Helper()
	uc := usecase.NewService(func(int64) ports.StageGenerator { return fixedGen{roots: roots} },
		hint.NewRoots(solver.New()), storage.NewMemory(), nil)
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

const freeEntryConfig = `{"config":{"variant":"test","rootCount":2,"candidatePoolSize":4,"stageCount":1,"minRoot":-9,"maxRoot":9},"seed":5}`

func start(t *testing.T, srv *httptest.Server) snapshotJSON {
	t.Helper()
	var resp struct {
		Snapshot snapshotJSON `json:"snapshot"`
		Error    string       `json:"error"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/start", freeEntryConfig, &resp), resp.Error)
	return resp.Snapshot
}

func TestStartAndState(t *testing.T) {
	srv := newServer(t, domain.Int(3), domain.Int(-1))
	snap := start(t, srv)
	assert.Equal(t, "in_progress", snap.State)
	assert.Equal(t, "x²-2x-3", snap.Equation)
	assert.Equal(t, 2, snap.Remaining)

	var resp struct {
		Snapshot snapshotJSON `json:"snapshot"`
	}
	require.Equal(t, http.StatusOK, get(t, srv, "/api/state?id="+snap.ID, &resp))
	assert.Equal(t, snap.ID, resp.Snapshot.ID)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/state?id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/state", nil))
}

func TestStartUnknownVariant(t *testing.T) {
	srv := newServer(t, domain.Int(1))
	var resp struct {
		Error string `json:"error"`
	}
	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/api/start", `{"variant":"tiny"}`, &resp))
	assert.Contains(t, resp.Error, "unknown variant")
}

func TestStartRejectsOversizedRange(t *testing.T) {
	srv := newServer(t, domain.Int(1))
	var resp struct {
		Error string `json:"error"`
	}
	body := `{"config":{"rootCount":4,"candidatePoolSize":8,"stageCount":1,"minRoot":0,"maxRoot":4000000000}}`
	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/api/start", body, &resp))
	assert.Contains(t, resp.Error, "invalid puzzle config")
}

func TestGuessStrikeAndResume(t *testing.T) {
	srv := newServer(t, domain.Int(3), domain.Int(-1))
	snap := start(t, srv)

	var gr struct {
		Result resultJSON `json:"result"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/guess", `{"id":"`+snap.ID+`","numerator":3}`, &gr))
	assert.Equal(t, "correct_partial", gr.Result.Outcome)

	require.Equal(t, http.StatusOK, post(t, srv, "/api/guess", `{"id":"`+snap.ID+`","numerator":5,"denominator":1}`, &gr))
	assert.Equal(t, "strike", gr.Result.Outcome)
	assert.Equal(t, "locked", gr.Result.State)
	assert.Equal(t, int64(1e9), gr.Result.ResumeAfter)

	var rr struct {
		Snapshot snapshotJSON `json:"snapshot"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/resume", `{"id":"`+snap.ID+`"}`, &rr))
	assert.Equal(t, "in_progress", rr.Snapshot.State)
	assert.Empty(t, rr.Snapshot.Confirmed)
}

func TestGuessInvalidFraction(t *testing.T) {
	srv := newServer(t, domain.Root{Num: 1, Den: 2}, domain.Int(-3))
	snap := start(t, srv)
	require.True(t, snap.Fractions)

	var gr struct {
		Result resultJSON `json:"result"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/guess", `{"id":"`+snap.ID+`","numerator":4,"denominator":8}`, &gr))
	assert.Equal(t, "invalid_input", gr.Result.Outcome)
	assert.NotEmpty(t, gr.Result.Reason)

	require.Equal(t, http.StatusOK, post(t, srv, "/api/guess", `{"id":"`+snap.ID+`","numerator":1,"denominator":2}`, &gr))
	assert.Equal(t, "correct_partial", gr.Result.Outcome)
}

func TestCommandHintSolve(t *testing.T) {
	srv := newServer(t, domain.Int(2), domain.Int(-4))
	snap := start(t, srv)

	var hr struct {
		Found bool `json:"found"`
		Hint  struct {
			Root struct {
				Num int `json:"num"`
				Den int `json:"den"`
			} `json:"root"`
		} `json:"hint"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/hint", `{"id":"`+snap.ID+`"}`, &hr))
	require.True(t, hr.Found)
	assert.Equal(t, -4, hr.Hint.Root.Num)

	var cr struct {
		Results  []resultJSON `json:"results"`
		Snapshot snapshotJSON `json:"snapshot"`
		Error    string       `json:"error"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/command", `{"id":"`+snap.ID+`","text":"submit -4"}`, &cr))
	require.Len(t, cr.Results, 1)
	assert.Equal(t, []string{"-4"}, cr.Snapshot.Confirmed)

	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/api/command", `{"id":"`+snap.ID+`","text":"submit 1/3"}`, &cr))
	assert.Contains(t, cr.Error, "fractions")

	var sr struct {
		Snapshot snapshotJSON `json:"snapshot"`
	}
	require.Equal(t, http.StatusOK, post(t, srv, "/api/solve", `{"id":"`+snap.ID+`"}`, &sr))
	assert.Equal(t, "solved", sr.Snapshot.State)
}

func TestListEndVariants(t *testing.T) {
	srv := newServer(t, domain.Int(1), domain.Int(2))
	snap := start(t, srv)

	var lr struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, get(t, srv, "/api/list", &lr))
	require.Len(t, lr.Sessions, 1)
	assert.Equal(t, snap.ID, lr.Sessions[0].ID)

	require.Equal(t, http.StatusOK, post(t, srv, "/api/end", `{"id":"`+snap.ID+`"}`, nil))
	assert.Equal(t, http.StatusNotFound, post(t, srv, "/api/end", `{"id":"`+snap.ID+`"}`, nil))

	var vr struct {
		Variants []string `json:"variants"`
	}
	require.Equal(t, http.StatusOK, get(t, srv, "/api/variants", &vr))
	assert.Equal(t, domain.Variants(), vr.Variants)
}

func TestMethodAndBodyChecks(t *testing.T) {
	srv := newServer(t, domain.Int(1))
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, srv, "/api/guess", nil))
	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/api/guess", `{"numerator":1}`, nil))
	assert.Equal(t, http.StatusBadRequest, post(t, srv, "/api/resume", `not json`, nil))
}
