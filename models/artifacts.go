/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/humaidq/gnprotocol/reference"
)

// Task names one of the six predictions.
type Task string

// Prediction tasks.
const (
	TaskStartDose  Task = "start_dose"
	TaskTotalDose  Task = "total_dose"
	TaskDrug       Task = "drug"
	TaskProtocol   Task = "protocol"
	TaskTriggerDay Task = "trigger_day"
	TaskTotalDays  Task = "total_days"
)

// Tasks lists every task in display order.
var Tasks = []Task{TaskStartDose, TaskTotalDose, TaskDrug, TaskProtocol, TaskTriggerDay, TaskTotalDays}

// FileNames are the artifact file names inside the model directory.
type FileNames struct {
	StartDose       string `mapstructure:"start_dose"`
	TotalDose       string `mapstructure:"total_dose"`
	Drug            string `mapstructure:"drug"`
	Protocol        string `mapstructure:"protocol"`
	TriggerDay      string `mapstructure:"trigger_day"`
	TotalDays       string `mapstructure:"total_days"`
	DrugEncoder     string `mapstructure:"drug_encoder"`
	ProtocolEncoder string `mapstructure:"protocol_encoder"`
	Statistics      string `mapstructure:"statistics"`
}

// DefaultFileNames mirrors the artifact layout of the training export.
func DefaultFileNames() FileNames {
	return FileNames{
		StartDose:       "reg_start_model.json",
		TotalDose:       "reg_total_model.json",
		Drug:            "clf_drug_model.json",
		Protocol:        "clf_protocol_model.json",
		TriggerDay:      "reg_trigger_model.json",
		TotalDays:       "reg_days_model.json",
		DrugEncoder:     "drug_encoder.json",
		ProtocolEncoder: "protocol_encoder.json",
		Statistics:      "e2_percentiles.json",
	}
}

func (n FileNames) withDefaults() FileNames {
	d := DefaultFileNames()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return FileNames{
		StartDose:       pick(n.StartDose, d.StartDose),
		TotalDose:       pick(n.TotalDose, d.TotalDose),
		Drug:            pick(n.Drug, d.Drug),
		Protocol:        pick(n.Protocol, d.Protocol),
		TriggerDay:      pick(n.TriggerDay, d.TriggerDay),
		TotalDays:       pick(n.TotalDays, d.TotalDays),
		DrugEncoder:     pick(n.DrugEncoder, d.DrugEncoder),
		ProtocolEncoder: pick(n.ProtocolEncoder, d.ProtocolEncoder),
		Statistics:      pick(n.Statistics, d.Statistics),
	}
}

func (n FileNames) model(task Task) string {
	switch task {
	case TaskStartDose:
		return n.StartDose
	case TaskTotalDose:
		return n.TotalDose
	case TaskDrug:
		return n.Drug
	case TaskProtocol:
		return n.Protocol
	case TaskTriggerDay:
		return n.TriggerDay
	case TaskTotalDays:
		return n.TotalDays
	}
	return ""
}

// Artifacts is the read-only set of models, encoders and reference
// statistics shared by every request. It is built once at startup.
type Artifacts struct {
	Models          map[Task]*Bundle
	DrugEncoder     *LabelEncoder
	ProtocolEncoder *LabelEncoder
	Statistics      *reference.Table
}

// LoadOptions configures LoadArtifacts.
type LoadOptions struct {
	Dir   string
	Files FileNames
	// Client is used by remote bundles; nil uses a client with
	// DefaultRemoteTimeout.
	Client *http.Client
	// Statistics, when set, is used instead of the statistics file.
	Statistics *reference.Table
}

// LoadArtifacts reads every artifact from the model directory. Any failure is
// returned; the service cannot run with a partial set.
func LoadArtifacts(opts LoadOptions) (*Artifacts, error) {
	files := opts.Files.withDefaults()
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultRemoteTimeout}
	}

	a := &Artifacts{Models: make(map[Task]*Bundle, len(Tasks))}
	for _, task := range Tasks {
		path := filepath.Join(opts.Dir, files.model(task))
		b, err := LoadBundle(path, client)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task, err)
		}
		a.Models[task] = b
		logger.Info("Loaded model", "task", task, "name", b.Name, "kind", b.Kind, "features", len(b.Features))
	}

	var err error
	if a.DrugEncoder, err = LoadEncoder(filepath.Join(opts.Dir, files.DrugEncoder)); err != nil {
		return nil, fmt.Errorf("drug encoder: %w", err)
	}
	if a.ProtocolEncoder, err = LoadEncoder(filepath.Join(opts.Dir, files.ProtocolEncoder)); err != nil {
		return nil, fmt.Errorf("protocol encoder: %w", err)
	}

	a.Statistics = opts.Statistics
	if a.Statistics == nil {
		if a.Statistics, err = reference.LoadFile(filepath.Join(opts.Dir, files.Statistics)); err != nil {
			return nil, fmt.Errorf("reference statistics: %w", err)
		}
	}

	for key, problem := range a.Statistics.Check() {
		logger.Warn("Reference statistics are not monotonic", "quantity", key, "error", problem)
	}

	return a, nil
}
