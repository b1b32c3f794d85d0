/*
 * rv32sim - Main process.
 *
 * Copyright 2026, rv32sim contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/elfloader"
	"github.com/rv32sim/rv32sim/monitor"
	"github.com/rv32sim/rv32sim/sim"
	"github.com/rv32sim/rv32sim/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMonitor := getopt.BoolLong("monitor", 'm', "Start interactive monitor instead of running to completion")
	optTrace := getopt.BoolLong("trace", 't', "Trace every retired instruction")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp || getopt.NArgs() != 1 {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	handler := logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, &debug)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	tuning := config.DefaultTuning()
	if *optConfig != "" {
		if err := config.LoadFile(*optConfig, &tuning); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optTrace {
		tuning.Trace = true
	}
	if tuning.Trace {
		// Trace lines are emitted via slog.Debug; raise the level and
		// tee to stderr so they reach the user even without -l set.
		programLevel.Set(slog.LevelDebug)
		debug = true
		handler.SetDebug(&debug)
	}

	elfPath := getopt.Arg(0)
	machine := sim.NewMachine(tuning, os.Stderr)

	entry, err := elfloader.Load(elfPath, machine.Storage, tuning.Entry)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	machine.Reset(entry)

	Logger.Info("rv32sim started", "elf", elfPath, "entry", entry)

	if *optMonitor {
		if err := monitor.New(machine).Run(); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	code, err := machine.Run(context.Background())
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	cycles, instructions, ipc := machine.Stats()
	Logger.Info("run complete", "cycles", cycles, "instructions", instructions,
		"ipc", strconv.FormatFloat(ipc, 'f', 4, 64))
	os.Exit(code)
}
