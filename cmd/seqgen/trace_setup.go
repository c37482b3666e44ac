package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"seqgen/internal/trace"
)

// activeTracer is the tracer of the running command; dumpTraceOnPanic reads it.
var activeTracer trace.Tracer = trace.Nop

type traceFlags struct {
	output    string
	cfg       trace.Config
	heartbeat time.Duration
}

func readTraceFlags(flags *pflag.FlagSet) (traceFlags, error) {
	var (
		tf                  traceFlags
		level, mode, format string
		err                 error
	)
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"trace", &tf.output},
		{"trace-level", &level},
		{"trace-mode", &mode},
		{"trace-format", &format},
	} {
		if *s.dst, err = flags.GetString(s.name); err != nil {
			return tf, fmt.Errorf("failed to get %s flag: %w", s.name, err)
		}
	}
	if tf.cfg.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return tf, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if tf.heartbeat, err = flags.GetDuration("trace-heartbeat"); err != nil {
		return tf, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	if tf.cfg.Level, err = trace.ParseLevel(level); err != nil {
		return tf, err
	}
	// --trace без уровня включает phase
	if tf.cfg.Level == trace.LevelOff && tf.output != "" && !flags.Changed("trace-level") {
		tf.cfg.Level = trace.LevelPhase
	}
	if tf.cfg.Mode, err = trace.ParseMode(mode); err != nil {
		return tf, err
	}
	if tf.cfg.Format, err = trace.ParseFormat(format); err != nil {
		return tf, err
	}
	if tf.cfg.Format == trace.FormatAuto {
		tf.cfg.Format = trace.FormatForPath(tf.output)
	}
	tf.cfg.OutputPath = tf.output
	return tf, nil
}

// setupTracing builds the tracer from the --trace* flags and stores it in the
// command context. The returned cleanup stops the heartbeat, dumps the ring
// in ring mode and closes the output.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	if tf.cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(tf.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	stopHeartbeat := trace.StartHeartbeat(tracer, tf.heartbeat)
	warn := func(what string, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s error: %v\n", what, err)
		}
	}
	return func() {
		stopHeartbeat()
		// В режиме ring события видны только через дамп.
		if tf.cfg.Mode == trace.ModeRing {
			warn("dump", dumpRing(tracer, tf.output, tf.cfg.Format))
		}
		warn("flush", tracer.Flush())
		warn("close", tracer.Close())
		activeTracer = trace.Nop
	}, nil
}

func dumpRing(t trace.Tracer, output string, format trace.Format) error {
	ring, ok := trace.FindRing(t)
	if !ok {
		return nil
	}
	w, closer, err := trace.OpenOutput(output)
	if err != nil {
		return err
	}
	err = ring.Dump(w, format)
	if closer != nil {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// dumpTraceOnPanic пишет содержимое ring-буфера в stderr и паникует дальше.
// Используется через defer в командах.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring, ok := trace.FindRing(activeTracer); ok {
		fmt.Fprintf(os.Stderr, "seqgen: panic: %v\nlast trace events:\n", r)
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
