package model

type InspectResponse struct {
	Length    uint32   `json:"length"`
	Elements  int      `json:"elements"`
	Divisions uint32   `json:"divisions"`
	Voices    int      `json:"voices"`
	Dump      []string `json:"dump,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
