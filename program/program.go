// Package program is the lifecycle controller for project records: it creates
// a record together with its token custody and authorizes state transitions.
package program

import (
	"context"
	"errors"
	"fmt"

	"supercollab/ledger"
	"supercollab/logutils"
	"supercollab/model"
)

// MintDecimals is the precision of every project token.
const MintDecimals = 9

type Program struct {
	id model.Pubkey
	rt *ledger.Runtime
}

// New binds the program identity, fixed for the life of the process, to a runtime.
func New(id model.Pubkey, rt *ledger.Runtime) *Program {
	return &Program{id: id, rt: rt}
}

func (p *Program) ID() model.Pubkey { return p.id }

type CreateProjectArgs struct {
	Name            string
	Description     string
	TotalAllocation uint64
}

// CreateProjectAccounts are the bindings create_project runs against.
// Project, TokenMint and ProjectVault must be fresh.
type CreateProjectAccounts struct {
	Project       ledger.AccountMeta
	Creator       ledger.AccountMeta
	TokenMint     ledger.AccountMeta
	ProjectVault  ledger.AccountMeta
	SystemProgram model.Pubkey
	TokenProgram  model.Pubkey
	Rent          model.Pubkey
}

// NewCreateProjectAccounts grants every account the capabilities create_project needs.
func NewCreateProjectAccounts(creator, project, tokenMint, projectVault model.Pubkey) CreateProjectAccounts {
	return CreateProjectAccounts{
		Project:       ledger.NewWritableMeta(project, true),
		Creator:       ledger.NewWritableMeta(creator, true),
		TokenMint:     ledger.NewWritableMeta(tokenMint, true),
		ProjectVault:  ledger.NewWritableMeta(projectVault, true),
		SystemProgram: ledger.SystemProgramID,
		TokenProgram:  ledger.TokenProgramID,
		Rent:          ledger.RentSysvarID,
	}
}

type UpdateProjectStateAccounts struct {
	Project ledger.AccountMeta
	Creator ledger.AccountMeta
}

func NewUpdateProjectStateAccounts(creator, project model.Pubkey) UpdateProjectStateAccounts {
	return UpdateProjectStateAccounts{
		Project: ledger.NewWritableMeta(project, false),
		Creator: ledger.NewReadonlyMeta(creator, true),
	}
}

// CreateProject allocates the record, sets up its mint and custody account,
// mints the allocation into custody and emits ProjectCreated.
func (p *Program) CreateProject(ctx context.Context, accounts CreateProjectAccounts, args CreateProjectArgs) (*ledger.Receipt, error) {
	metas := []ledger.AccountMeta{accounts.Project, accounts.Creator, accounts.TokenMint, accounts.ProjectVault}
	receipt, err := p.rt.Execute(ctx, metas, func(tx *ledger.Tx, infos []*ledger.AccountInfo) error {
		return p.createProject(tx, accounts, infos[0], infos[1], infos[2], infos[3], args)
	})
	if err != nil {
		logutils.Log.WithError(err).WithFields(logutils.Fields{
			"project": accounts.Project.Key.String(),
			"creator": accounts.Creator.Key.String(),
		}).Warn("create_project rejected")
		return nil, err
	}
	logutils.Log.WithFields(logutils.Fields{
		"project":    accounts.Project.Key.String(),
		"creator":    accounts.Creator.Key.String(),
		"allocation": args.TotalAllocation,
		"signature":  receipt.Signature,
	}).Info("project created")
	return receipt, nil
}

func (p *Program) createProject(
	tx *ledger.Tx,
	accounts CreateProjectAccounts,
	project, creator, mint, vault *ledger.AccountInfo,
	args CreateProjectArgs,
) error {
	if err := guard(
		programID("system_program", accounts.SystemProgram, ledger.SystemProgramID),
		programID("token_program", accounts.TokenProgram, ledger.TokenProgramID),
		programID("rent", accounts.Rent, ledger.RentSysvarID),
		distinct(project, creator, mint, vault),
		signer("creator", creator),
		writable("creator", creator),
		signer("project", project),
		writable("project", project),
		uninitialized("project", project),
		signer("token_mint", mint),
		writable("token_mint", mint),
		uninitialized("token_mint", mint),
		signer("project_vault", vault),
		writable("project_vault", vault),
		uninitialized("project_vault", vault),
	); err != nil {
		return err
	}

	rent := tx.Rent()

	space := model.ProjectSpace(args.Name, args.Description)
	if err := tx.CreateAccount(creator, project, rent.MinimumBalance(space), space, p.id); err != nil {
		return fmt.Errorf("allocate project: %w", err)
	}
	record := model.Project{
		ID:              project.Key,
		Name:            args.Name,
		Description:     args.Description,
		State:           model.StateActive,
		TokenMint:       mint.Key,
		Creator:         creator.Key,
		TotalAllocation: args.TotalAllocation,
		CreatedAt:       tx.Clock().UnixTimestamp(),
	}
	if err := record.EncodeInto(project.Data); err != nil {
		return fmt.Errorf("project %s: %w: %v", project.Key, ErrAccountDidNotSerialize, err)
	}

	if err := tx.CreateAccount(creator, mint, rent.MinimumBalance(ledger.MintLen), ledger.MintLen, ledger.TokenProgramID); err != nil {
		return fmt.Errorf("allocate token mint: %w", err)
	}
	freezeAuthority := creator.Key
	if err := tx.InitializeMint(mint, MintDecimals, creator.Key, &freezeAuthority); err != nil {
		return fmt.Errorf("initialize token mint: %w", err)
	}

	if err := tx.CreateAccount(creator, vault, rent.MinimumBalance(ledger.TokenAccountLen), ledger.TokenAccountLen, ledger.TokenProgramID); err != nil {
		return fmt.Errorf("allocate project vault: %w", err)
	}
	// Custody belongs to the record, not to the creator.
	if err := tx.InitializeAccount(vault, mint, project.Key); err != nil {
		return fmt.Errorf("initialize project vault: %w", err)
	}

	if err := tx.MintToChecked(mint, vault, creator, args.TotalAllocation, MintDecimals); err != nil {
		return fmt.Errorf("mint allocation: %w", err)
	}

	return tx.Emit(ProjectCreated{
		ProjectID:       record.ID,
		Creator:         record.Creator,
		Name:            record.Name,
		TotalAllocation: record.TotalAllocation,
	})
}

// UpdateProjectState moves a project to newState on behalf of its creator
// and emits ProjectStateUpdated.
func (p *Program) UpdateProjectState(ctx context.Context, accounts UpdateProjectStateAccounts, newState model.ProjectState) (*ledger.Receipt, error) {
	metas := []ledger.AccountMeta{accounts.Project, accounts.Creator}
	receipt, err := p.rt.Execute(ctx, metas, func(tx *ledger.Tx, infos []*ledger.AccountInfo) error {
		return p.updateProjectState(tx, infos[0], infos[1], newState)
	})
	if err != nil {
		logutils.Log.WithError(err).WithFields(logutils.Fields{
			"project": accounts.Project.Key.String(),
			"state":   newState.String(),
		}).Warn("update_project_state rejected")
		return nil, err
	}
	logutils.Log.WithFields(logutils.Fields{
		"project":   accounts.Project.Key.String(),
		"state":     newState.String(),
		"signature": receipt.Signature,
	}).Info("project state updated")
	return receipt, nil
}

func (p *Program) updateProjectState(tx *ledger.Tx, project, creator *ledger.AccountInfo, newState model.ProjectState) error {
	if err := guard(
		signer("creator", creator),
		writable("project", project),
		initialized("project", project),
		ownedBy("project", project, p.id),
	); err != nil {
		return err
	}

	record, err := decodeProject(project.Key, project.Data)
	if err != nil {
		return err
	}
	if record.Creator != creator.Key {
		return fmt.Errorf("project %s creator is %s, caller is %s: %w", project.Key, record.Creator, creator.Key, ErrConstraintHasOne)
	}
	if !newState.Valid() {
		return fmt.Errorf("state %d: %w", uint8(newState), ErrInvalidProjectState)
	}
	if record.State == newState {
		return fmt.Errorf("project %s already %s: %w", project.Key, newState, ErrInvalidStateTransition)
	}

	record.State = newState
	if err := record.EncodeInto(project.Data); err != nil {
		return fmt.Errorf("project %s: %w: %v", project.Key, ErrAccountDidNotSerialize, err)
	}

	return tx.Emit(ProjectStateUpdated{
		ProjectID: record.ID,
		NewState:  newState,
	})
}

// Project reads a committed record.
func (p *Program) Project(ctx context.Context, key model.Pubkey) (model.Project, error) {
	acct, err := p.rt.Account(ctx, key)
	if err != nil {
		return model.Project{}, err
	}
	if acct.Owner != p.id {
		return model.Project{}, fmt.Errorf("project %s owned by %s: %w", key, acct.Owner, ErrAccountOwnedByWrongProgram)
	}
	return decodeProject(key, acct.Data)
}

func decodeProject(key model.Pubkey, data []byte) (model.Project, error) {
	var record model.Project
	if err := record.UnmarshalBinary(data); err != nil {
		if errors.Is(err, model.ErrDiscriminatorMismatch) {
			return record, fmt.Errorf("project %s: %w", key, ErrAccountDiscriminatorMismatch)
		}
		return record, fmt.Errorf("project %s: %w: %v", key, ErrAccountDidNotDeserialize, err)
	}
	return record, nil
}
