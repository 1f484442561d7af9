package models

import "time"

// GenerationAudit is one recorded exchange with the text generation backend.
type GenerationAudit struct {
	ID         int64      `json:"id"`
	Theme      string     `json:"theme"`
	Difficulty Difficulty `json:"difficulty"`
	Attempt    int        `json:"attempt"`
	Prompt     string     `json:"prompt"`
	Raw        string     `json:"raw"`
	Accepted   bool       `json:"accepted"`
	Reason     string     `json:"reason,omitempty"`
	CaseID     string     `json:"caseId,omitempty"`
	Created    time.Time  `json:"created"`
}
