package service

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	daomodel "supercollab/dao/model"
	"supercollab/ledger"
	"supercollab/model"
	"supercollab/program"
	"supercollab/response"
)

// EventJournal looks up the events an operation emitted.
type EventJournal interface {
	BySignature(ctx context.Context, signature string) ([]daomodel.ProgramEvent, error)
}

type ProjectHandler struct {
	prog    *program.Program
	rt      *ledger.Runtime
	journal EventJournal
}

// NewProjectHandler serves the program over HTTP. journal may be nil.
func NewProjectHandler(prog *program.Program, rt *ledger.Runtime, journal EventJournal) *ProjectHandler {
	return &ProjectHandler{prog: prog, rt: rt, journal: journal}
}

type (
	CreateProjectReq struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		TotalAllocation uint64 `json:"totalAllocation"`
	}
	CreateProjectResp struct {
		Project      model.Pubkey `json:"project"`
		TokenMint    model.Pubkey `json:"tokenMint"`
		ProjectVault model.Pubkey `json:"projectVault"`
		Signature    string       `json:"signature"`
		Logs         []string     `json:"logs"`
	}
	UpdateProjectStateReq struct {
		State *model.ProjectState `json:"state" binding:"required"`
	}
	ReceiptResp struct {
		Signature string   `json:"signature"`
		Logs      []string `json:"logs"`
	}
	AirdropReq struct {
		Pubkey   model.Pubkey `json:"pubkey" binding:"required"`
		Lamports uint64       `json:"lamports" binding:"required"`
	}
	BalanceResp struct {
		Pubkey   model.Pubkey `json:"pubkey"`
		Lamports uint64       `json:"lamports"`
	}
)

// CreateProject creates a project owned by the caller. The record, mint and
// custody addresses are generated here, so the server signs for them.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.HTTPError(c, http.StatusUnauthorized, "no caller", response.TokenMissing)
		return
	}
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	resp := CreateProjectResp{
		Project:      model.NewPubkey(),
		TokenMint:    model.NewPubkey(),
		ProjectVault: model.NewPubkey(),
	}
	accounts := program.NewCreateProjectAccounts(user.Key, resp.Project, resp.TokenMint, resp.ProjectVault)
	receipt, err := h.prog.CreateProject(c.Request.Context(), accounts, program.CreateProjectArgs{
		Name:            req.Name,
		Description:     req.Description,
		TotalAllocation: req.TotalAllocation,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	resp.Signature = receipt.Signature
	resp.Logs = receipt.Logs
	response.Success(c, resp)
}

func (h *ProjectHandler) UpdateProjectState(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.HTTPError(c, http.StatusUnauthorized, "no caller", response.TokenMissing)
		return
	}
	key, ok := pathKey(c, "id")
	if !ok {
		return
	}
	var req UpdateProjectStateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	accounts := program.NewUpdateProjectStateAccounts(user.Key, key)
	receipt, err := h.prog.UpdateProjectState(c.Request.Context(), accounts, *req.State)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, ReceiptResp{Signature: receipt.Signature, Logs: receipt.Logs})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	key, ok := pathKey(c, "id")
	if !ok {
		return
	}
	p, err := h.prog.Project(c.Request.Context(), key)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}

func (h *ProjectHandler) GetMint(c *gin.Context) {
	key, ok := pathKey(c, "key")
	if !ok {
		return
	}
	m, err := h.rt.Mint(c.Request.Context(), key)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, m)
}

func (h *ProjectHandler) GetTokenAccount(c *gin.Context) {
	key, ok := pathKey(c, "key")
	if !ok {
		return
	}
	a, err := h.rt.TokenAccount(c.Request.Context(), key)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, a)
}

func (h *ProjectHandler) GetBalance(c *gin.Context) {
	key, ok := pathKey(c, "key")
	if !ok {
		return
	}
	acct, err := h.rt.Account(c.Request.Context(), key)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, BalanceResp{Pubkey: key, Lamports: acct.Lamports})
}

// Airdrop credits lamports for development setups.
func (h *ProjectHandler) Airdrop(c *gin.Context) {
	var req AirdropReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := h.rt.Airdrop(c.Request.Context(), req.Pubkey, req.Lamports); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *ProjectHandler) GetReceiptEvents(c *gin.Context) {
	events, err := h.journal.BySignature(c.Request.Context(), c.Param("signature"))
	if err != nil {
		response.Error(c, err.Error(), response.NotSpecified)
		return
	}
	response.Success(c, events)
}

func pathKey(c *gin.Context, name string) (model.Pubkey, bool) {
	key, err := model.ParsePubkey(c.Param(name))
	if err != nil {
		response.BadRequestError(c, err.Error())
		return model.Pubkey{}, false
	}
	return key, true
}

func (h *ProjectHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/projects", h.CreateProject)
	api.GET("/projects/:id", h.GetProject)
	api.PUT("/projects/:id/state", h.UpdateProjectState)
	api.GET("/mints/:key", h.GetMint)
	api.GET("/token-accounts/:key", h.GetTokenAccount)
	api.GET("/accounts/:key/balance", h.GetBalance)
	api.POST("/airdrop", RequireAdmin(), h.Airdrop)
	if h.journal != nil {
		api.GET("/receipts/:signature/events", h.GetReceiptEvents)
	}
}
