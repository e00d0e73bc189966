package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supercollab/ledger"
	"supercollab/model"
	"supercollab/program"
	"supercollab/response"
	"supercollab/util"
)

const programID = "95g7UEjtYL7zguPZztyAi5cpRhmHHTk328dyWCjT2S7T"

type testServer struct {
	router *gin.Engine
	rt     *ledger.Runtime
	tm     *util.TokenManager
}

func newTestServer(t *testing.T, opts RouterOptions, checks map[string]HealthCheckFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rt := ledger.NewRuntime(ledger.NewMemoryStore())
	prog := program.New(model.MustParsePubkey(programID), rt)
	tm := util.NewTokenManager("test-secret", time.Hour, time.Hour)
	router := NewRouter(opts, tm,
		NewProjectHandler(prog, rt, nil),
		NewHealthHandler("supercollab", programID, checks))
	return &testServer{router: router, rt: rt, tm: tm}
}

func (s *testServer) token(t *testing.T, user model.User) string {
	t.Helper()
	access, _, err := s.tm.CreateTokens(&util.JWTMessage{Pubkey: user.Key, Username: user.Name, RolePlatform: user.Role})
	require.NoError(t, err)
	return access
}

func (s *testServer) funded(t *testing.T, role model.Role) (model.User, string) {
	t.Helper()
	user := model.User{Key: model.NewPubkey(), Name: "tester", Role: role}
	require.NoError(t, s.rt.Airdrop(context.Background(), user.Key, 1_000_000_000))
	return user, s.token(t, user)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr, out
}

func errorCode(t *testing.T, out map[string]json.RawMessage) response.ErrorCode {
	t.Helper()
	var code response.ErrorCode
	require.NoError(t, json.Unmarshal(out["code"], &code))
	return code
}

func TestProjectAPI(t *testing.T) {
	s := newTestServer(t, RouterOptions{}, nil)
	creator, token := s.funded(t, model.RoleUser)

	rr, out := s.do(t, http.MethodPost, "/api/projects", token, CreateProjectReq{
		Name:            "Alpha",
		Description:     "first collaboration",
		TotalAllocation: 1_000_000,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created CreateProjectResp
	require.NoError(t, json.Unmarshal(out["data"], &created))
	assert.NotEmpty(t, created.Signature)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	rr, out = s.do(t, http.MethodGet, "/api/projects/"+created.Project.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var p model.Project
	require.NoError(t, json.Unmarshal(out["data"], &p))
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, creator.Key, p.Creator)
	assert.Equal(t, model.StateActive, p.State)

	rr, out = s.do(t, http.MethodGet, "/api/token-accounts/"+created.ProjectVault.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var vault ledger.TokenAccount
	require.NoError(t, json.Unmarshal(out["data"], &vault))
	assert.Equal(t, uint64(1_000_000), vault.Amount)
	assert.Equal(t, created.Project, vault.Owner)

	rr, out = s.do(t, http.MethodGet, "/api/mints/"+created.TokenMint.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mint ledger.Mint
	require.NoError(t, json.Unmarshal(out["data"], &mint))
	assert.Equal(t, uint64(1_000_000), mint.Supply)

	rr, _ = s.do(t, http.MethodPut, "/api/projects/"+created.Project.String()+"/state", token,
		map[string]string{"state": "Completed"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, out = s.do(t, http.MethodPut, "/api/projects/"+created.Project.String()+"/state", token,
		map[string]string{"state": "Completed"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, response.InvalidStateTransition, errorCode(t, out))
	var detail response.LedgerError
	require.NoError(t, json.Unmarshal(out["data"], &detail))
	assert.Equal(t, "InvalidStateTransition", detail.Name)
	assert.Equal(t, uint32(6000), detail.Code)

	_, stranger := s.funded(t, model.RoleUser)
	rr, out = s.do(t, http.MethodPut, "/api/projects/"+created.Project.String()+"/state", stranger,
		map[string]string{"state": "Cancelled"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, response.ConstraintViolation, errorCode(t, out))

	rr, out = s.do(t, http.MethodGet, "/api/projects/"+created.Project.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(out["data"], &p))
	assert.Equal(t, model.StateCompleted, p.State)
}

func TestProjectAPIErrors(t *testing.T) {
	s := newTestServer(t, RouterOptions{}, nil)
	_, token := s.funded(t, model.RoleUser)

	t.Run("no token", func(t *testing.T) {
		rr, out := s.do(t, http.MethodGet, "/api/projects/"+model.NewPubkey().String(), "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, response.TokenMissing, errorCode(t, out))
	})

	t.Run("bad token", func(t *testing.T) {
		rr, out := s.do(t, http.MethodGet, "/api/projects/"+model.NewPubkey().String(), "nope", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, response.InvalidToken, errorCode(t, out))
	})

	t.Run("unknown project", func(t *testing.T) {
		rr, out := s.do(t, http.MethodGet, "/api/projects/"+model.NewPubkey().String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, response.AccountNotFound, errorCode(t, out))
	})

	t.Run("malformed key", func(t *testing.T) {
		rr, out := s.do(t, http.MethodGet, "/api/projects/not-a-key", token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, response.InvalidRequest, errorCode(t, out))
	})

	t.Run("unknown state", func(t *testing.T) {
		rr, _ := s.do(t, http.MethodPut, "/api/projects/"+model.NewPubkey().String()+"/state", token,
			map[string]string{"state": "Paused"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unfunded creator", func(t *testing.T) {
		broke := s.token(t, model.User{Key: model.NewPubkey(), Role: model.RoleUser})
		rr, out := s.do(t, http.MethodPost, "/api/projects", broke, CreateProjectReq{Name: "Beta"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, response.InsufficientFunds, errorCode(t, out))
	})
}

func TestAirdropRequiresAdmin(t *testing.T) {
	s := newTestServer(t, RouterOptions{}, nil)
	_, userToken := s.funded(t, model.RoleUser)
	_, adminToken := s.funded(t, model.RoleAdmin)
	target := model.NewPubkey()

	rr, out := s.do(t, http.MethodPost, "/api/airdrop", userToken, AirdropReq{Pubkey: target, Lamports: 5})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, response.InvalidRole, errorCode(t, out))

	rr, _ = s.do(t, http.MethodPost, "/api/airdrop", adminToken, AirdropReq{Pubkey: target, Lamports: 5})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, out = s.do(t, http.MethodGet, "/api/accounts/"+target.String()+"/balance", userToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var balance BalanceResp
	require.NoError(t, json.Unmarshal(out["data"], &balance))
	assert.Equal(t, uint64(5), balance.Lamports)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, RouterOptions{RateLimit: 0.001, RateBurst: 1}, nil)
	_, token := s.funded(t, model.RoleUser)
	path := "/api/accounts/" + model.NewPubkey().String() + "/balance"

	rr, _ := s.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, out := s.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, response.TooManyRequests, errorCode(t, out))
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, RouterOptions{}, nil)
	rr, out := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `"healthy"`, string(out["status"]))
	assert.JSONEq(t, `"`+programID+`"`, string(out["program"]))

	down := newTestServer(t, RouterOptions{}, map[string]HealthCheckFunc{
		"redis": func(context.Context) error { return errors.New("unreachable") },
	})
	rr, out = down.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"redis":"down"}`, string(out["checks"]))
}
