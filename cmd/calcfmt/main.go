// Command calcfmt prints numbers the way the calculator display shows them.
//
//	calcfmt 1 2.5 1e21
//	echo 0.1 | calcfmt
//	calcfmt -view < snapshots.jsonl
//
// "null" stands for a value that is not yet available.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"pocketcalc/sparkos/calc"
	"pocketcalc/sparkos/tasks/calcfeed"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "calcfmt:", err)
		os.Exit(1)
	}
}

type result struct {
	Input   string `json:"input"`
	Display string `json:"display"`
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("calcfmt", flag.ContinueOnError)
	view := fs.Bool("view", false, "Read JSON state snapshots and print the rendered view tree.")
	asJSON := fs.Bool("json", false, "Print one JSON object per value.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *view {
		return dumpViews(stdin, stdout)
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			for _, f := range strings.Fields(sc.Text()) {
				inputs = append(inputs, f)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	enc := json.NewEncoder(stdout)
	for _, in := range inputs {
		v, err := parseValue(in)
		if err != nil {
			return err
		}
		out := calc.Format(v)
		if *asJSON {
			if err := enc.Encode(result{Input: in, Display: out}); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	return nil
}

func parseValue(s string) (*float64, error) {
	if s == "null" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		// Out-of-range input still yields ±Inf or ±0, which the display handles.
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
	}
	return &f, nil
}

func dumpViews(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	first := true
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		s, err := calcfeed.DecodeSnapshot([]byte(text))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprint(w, calc.Render(s).Dump())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read snapshots: %w", err)
	}
	return nil
}
