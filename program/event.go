package program

import "supercollab/model"

var (
	projectCreatedDiscriminator      = model.Discriminator("event", "ProjectCreated")
	projectStateUpdatedDiscriminator = model.Discriminator("event", "ProjectStateUpdated")
)

// ProjectCreated is emitted once per successful create_project.
type ProjectCreated struct {
	ProjectID       model.Pubkey `json:"projectId"`
	Creator         model.Pubkey `json:"creator"`
	Name            string       `json:"name"`
	TotalAllocation uint64       `json:"totalAllocation"`
}

func (ProjectCreated) EventName() string { return "ProjectCreated" }

func (e ProjectCreated) MarshalBinary() ([]byte, error) {
	var enc model.Encoder
	enc.Bytes(projectCreatedDiscriminator[:])
	enc.Pubkey(e.ProjectID)
	enc.Pubkey(e.Creator)
	enc.String(e.Name)
	enc.U64(e.TotalAllocation)
	return enc.Data(), nil
}

// ProjectStateUpdated is emitted once per successful update_project_state.
type ProjectStateUpdated struct {
	ProjectID model.Pubkey       `json:"projectId"`
	NewState  model.ProjectState `json:"newState"`
}

func (ProjectStateUpdated) EventName() string { return "ProjectStateUpdated" }

func (e ProjectStateUpdated) MarshalBinary() ([]byte, error) {
	var enc model.Encoder
	enc.Bytes(projectStateUpdatedDiscriminator[:])
	enc.Pubkey(e.ProjectID)
	enc.U8(uint8(e.NewState))
	return enc.Data(), nil
}
