package app

import (
	"context"
	"fmt"

	"github.com/vk/qmrc/internal/artifact"
	"github.com/vk/qmrc/internal/circuit"
	"github.com/vk/qmrc/internal/ctxlog"
	"github.com/vk/qmrc/internal/device"
	"github.com/vk/qmrc/internal/hclspec"
	"github.com/vk/qmrc/internal/result"
	"github.com/vk/qmrc/internal/solver"
	"github.com/vk/qmrc/internal/tuning"
)

// Run executes the configured command. On failure a structured error
// payload is written to the output stream before the error is returned, so
// callers piping stdout always see a parseable document.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	var err error
	switch a.cfg.Command {
	case CommandSpecialize:
		err = a.specialize(ctx)
	case CommandRun:
		err = a.solve(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.cfg.Command)
	}
	if err != nil {
		if wErr := result.WriteError(a.outW, err); wErr != nil {
			a.logger.Error("failed to emit error payload", "error", wErr)
		}
	}
	return err
}

// specialize compiles an architecture specification into a solver artifact.
func (a *App) specialize(ctx context.Context) error {
	model, err := hclspec.NewLoader().LoadFile(ctx, a.cfg.SpecPath)
	if err != nil {
		return err
	}
	a.logger.Debug("architecture validated",
		"name", model.Name(), "qubits", model.NodeCount(), "couplings", len(model.Edges()))

	path := artifact.Path(a.cfg.SpecPath, a.cfg.OutDir)
	if err := artifact.Specialize(model, path, a.cfg.Debug); err != nil {
		return err
	}
	a.logger.Info("artifact written", "path", path, "debug", a.cfg.Debug)
	fmt.Fprintln(a.outW, path)
	return nil
}

// solve loads an artifact, binds the runtime graph and circuit, runs the
// engine, and emits the canonical result document.
func (a *App) solve(ctx context.Context) error {
	art, err := artifact.Load(a.cfg.ArtifactPath)
	if err != nil {
		return err
	}

	mode, err := solver.ParseMode(a.cfg.ModeToken)
	if err != nil {
		return err
	}

	cfg, err := tuning.Load(a.cfg.TuningPath)
	if err != nil {
		return err
	}

	graph := device.Full(art.Model)
	if a.cfg.GraphPath != "" {
		if graph, err = device.FromEdgeFile(art.Model, a.cfg.GraphPath); err != nil {
			return err
		}
	}
	a.logger.Debug("runtime graph bound", "active_nodes", graph.NodeCount())

	circ, err := circuit.ReadQASM(a.cfg.CircuitPath)
	if err != nil {
		return err
	}
	a.logger.Debug("circuit parsed",
		"gates", len(circ.Gates), "qubits", circ.QubitCount())

	if a.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Deadline)
		defer cancel()
	}

	engine := solver.New(graph, cfg)
	if art.Debug {
		engine = engine.WithTrace(solver.SlogTrace(a.logger))
	}
	res, err := engine.Solve(ctx, circ, mode)
	if err != nil {
		return err
	}
	a.logger.Info("solve complete", "mode", string(mode),
		"schedule_length", res.Cost.ScheduleLength,
		"inserted_primitives", res.Cost.InsertedPrimitives)

	return result.Write(a.outW, res)
}
