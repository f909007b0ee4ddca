package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/san-kum/pacesim/internal/sim"
)

// ExportData is the JSON document written for one session. RunID is random
// per export so files from repeated runs of the same seed can be told apart.
type ExportData struct {
	RunID       string             `json:"run_id"`
	Mode        string             `json:"mode"`
	Kp          float64            `json:"kp"`
	Ki          float64            `json:"ki"`
	Kd          float64            `json:"kd"`
	Target      float64            `json:"target"`
	Horizon     int                `json:"horizon"`
	Seed        int64              `json:"seed"`
	Status      string             `json:"status"`
	Periods     int                `json:"periods"`
	Spent       float64            `json:"spent"`
	FinalFactor float64            `json:"final_pacing_factor"`
	Metrics     map[string]float64 `json:"metrics"`
	History     sim.History        `json:"history"`
}

func NewExportData(cfg sim.Config, sess sim.Session, metrics map[string]float64) ExportData {
	return ExportData{
		RunID:       uuid.NewString(),
		Mode:        sess.State.Mode.String(),
		Kp:          sess.Controller.Kp,
		Ki:          sess.Controller.Ki,
		Kd:          sess.Controller.Kd,
		Target:      sess.State.Target,
		Horizon:     cfg.Horizon,
		Seed:        cfg.Seed,
		Status:      sess.Status.String(),
		Periods:     sess.State.Period,
		Spent:       sess.State.CumulativeInput,
		FinalFactor: sess.State.PacingFactor,
		Metrics:     metrics,
		History:     sess.History,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, data); err != nil {
		return err
	}
	return file.Close()
}
