package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/diag"
	"github.com/mmkal/workert/internal/frontend"
	"github.com/mmkal/workert/internal/playground"
)

type fakeChecker struct {
	result *frontend.CheckResult
	calls  int
	source string
}

func (f *fakeChecker) Check(ctx context.Context, source string) (*frontend.CheckResult, error) {
	f.calls++
	f.source = source
	return f.result, nil
}

type fakeRunner struct {
	status int
	body   []byte
	calls  int
}

func (f *fakeRunner) Run(ctx context.Context, entryModuleText string) (int, []byte) {
	f.calls++
	return f.status, f.body
}

func newTestServer(checker *fakeChecker, runner *fakeRunner) *Server {
	return New(playground.New(checker, runner, zap.NewNop()), zap.NewNop())
}

func passingCheck(lowered string) *frontend.CheckResult {
	return &frontend.CheckResult{Success: true, Lowered: lowered}
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPostRawSource(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{"success":true,"result":2}`)}
	s := newTestServer(checker, runner)

	req := httptest.NewRequest("POST", "/", strings.NewReader("export function main() { return 1 + 1; }"))
	rec := do(t, s, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != `{"success":true,"result":2}` {
		t.Errorf("body = %s", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if checker.source != "export function main() { return 1 + 1; }" {
		t.Errorf("checker saw %q", checker.source)
	}
}

func TestPostJSONBody(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{"success":true,"result":null}`)}
	s := newTestServer(checker, runner)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"const a = 1;"}`))
	rec := do(t, s, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if checker.source != "const a = 1;" {
		t.Errorf("checker saw %q, want the code field", checker.source)
	}
}

func TestPostInvalidJSONBody(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("")}
	runner := &fakeRunner{}
	s := newTestServer(checker, runner)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code": nope`))
	rec := do(t, s, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if checker.calls != 0 {
		t.Error("malformed input must not reach the checker")
	}
}

func TestGetWithCodeParam(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{"success":true,"result":null}`)}
	s := newTestServer(checker, runner)

	req := httptest.NewRequest("GET", "/?code=const%20a%20%3D%201%3B", nil)
	rec := do(t, s, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if checker.source != "const a = 1;" {
		t.Errorf("checker saw %q", checker.source)
	}
}

func TestGetWithoutCodeServesPage(t *testing.T) {
	checker := &fakeChecker{}
	runner := &fakeRunner{}
	s := newTestServer(checker, runner)

	rec := do(t, s, httptest.NewRequest("GET", "/", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if checker.calls != 0 || runner.calls != 0 {
		t.Error("info page must not invoke the pipeline")
	}
}

func TestEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   \n\t  "} {
		checker := &fakeChecker{result: passingCheck("")}
		runner := &fakeRunner{}
		s := newTestServer(checker, runner)

		rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader(body)))

		if rec.Code != 400 {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		var f playground.Failure
		if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(f.Error, "empty") {
			t.Errorf("error = %q, want mention of empty body", f.Error)
		}
		if checker.calls != 0 || runner.calls != 0 {
			t.Error("empty input must not invoke any collaborator")
		}
	}
}

func TestOversizedBody(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{}`)}
	s := newTestServer(checker, runner)

	// A source ending in a type error, pushed just past the cap: the whole
	// submission must be rejected, never a truncated prefix checked and run.
	source := strings.Repeat("// padding\n", maxSourceBytes/11+1) + `const oops: number = "hello";`
	rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader(source)))

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var f playground.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.Error, "exceeds") {
		t.Errorf("error = %q, want mention of the size limit", f.Error)
	}
	if checker.calls != 0 || runner.calls != 0 {
		t.Error("an over-limit submission must not reach any collaborator")
	}
}

func TestBodyAtLimitIsAccepted(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{}`)}
	s := newTestServer(checker, runner)

	source := strings.Repeat("a", maxSourceBytes)
	rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader(source)))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(checker.source) != maxSourceBytes {
		t.Errorf("checker saw %d bytes, want the full %d-byte submission", len(checker.source), maxSourceBytes)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeChecker{}, &fakeRunner{})

	for _, method := range []string{"PUT", "DELETE", "PATCH"} {
		rec := do(t, s, httptest.NewRequest(method, "/", strings.NewReader("x")))

		if rec.Code != 405 {
			t.Errorf("%s: status = %d, want 405", method, rec.Code)
		}
		var f playground.Failure
		if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
			t.Fatal(err)
		}
		if f.Error != "Method not allowed" {
			t.Errorf("%s: error = %q", method, f.Error)
		}
	}
}

func TestOptionsPreflight(t *testing.T) {
	s := newTestServer(&fakeChecker{}, &fakeRunner{})

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := do(t, s, req)

	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", rec.Body.String())
	}
}

func TestBareOptions(t *testing.T) {
	s := newTestServer(&fakeChecker{}, &fakeRunner{})

	rec := do(t, s, httptest.NewRequest("OPTIONS", "/", nil))

	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestCORSHeaderOnResponses(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 200, body: []byte(`{}`)}
	s := newTestServer(checker, runner)

	req := httptest.NewRequest("POST", "/", strings.NewReader("x"))
	req.Header.Set("Origin", "https://example.com")
	rec := do(t, s, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin on actual response")
	}
}

func TestCheckFailureResponse(t *testing.T) {
	checker := &fakeChecker{result: &frontend.CheckResult{
		Success: false,
		Diagnostics: []diag.Diagnostic{
			diag.Diagnostic{Message: "Type 'string' is not assignable to type 'number'.", Code: 2322, Category: diag.Error}.At(1, 6),
		},
	}}
	runner := &fakeRunner{}
	s := newTestServer(checker, runner)

	rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader(`const x: number = "hello";`)))

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var f playground.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if len(f.Diagnostics) == 0 {
		t.Fatal("check failure must carry diagnostics")
	}
	if f.Diagnostics[0].Code != 2322 || *f.Diagnostics[0].Line != 1 {
		t.Errorf("diagnostic = %+v", f.Diagnostics[0])
	}
	if !strings.Contains(f.Error, "error TS2322:1:6:") {
		t.Errorf("summary = %q", f.Error)
	}
	if runner.calls != 0 {
		t.Error("execution must never be attempted after a failed check")
	}
}

func TestRuntimeFailureResponse(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{status: 500, body: []byte(`{"success":false,"error":"boom"}`)}
	s := newTestServer(checker, runner)

	rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader("x")))

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope["error"] != "boom" {
		t.Errorf("error = %v", envelope["error"])
	}
	if _, ok := envelope["diagnostics"]; ok {
		t.Error("runtime failure must not carry diagnostics")
	}
}

func TestMissingEntryPassthrough(t *testing.T) {
	checker := &fakeChecker{result: passingCheck("var x;")}
	runner := &fakeRunner{
		status: 400,
		body:   []byte(`{"success":false,"error":"guest program does not define a main() function"}`),
	}
	s := newTestServer(checker, runner)

	rec := do(t, s, httptest.NewRequest("POST", "/", strings.NewReader("const unrelated = 1;")))

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var f playground.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.Error, "main") {
		t.Errorf("error = %q, want mention of the entry capability", f.Error)
	}
	if len(f.Diagnostics) != 0 {
		t.Error("missing-entry failure must carry zero diagnostics")
	}
}
