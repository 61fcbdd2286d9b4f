package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/siteask"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	resp, err := deps.Pipeline.Ask(deps.Ctx, c.Question)
	if resp == nil && err == nil {
		err = siteask.Errorf(siteask.EINTERNAL, "pipeline returned no response")
	}
	if resp == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteask.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(resp); encErr != nil {
			return encErr
		}
	} else {
		printResponse(deps, resp)
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteask.ErrorMessage(err))
		return err
	}
	return nil
}

func printResponse(deps *Dependencies, resp *siteask.Response) {
	fmt.Fprintln(deps.Stdout, resp.Answer)
	if len(resp.Sources) == 0 {
		return
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, "Sources:")
	for i, s := range resp.Sources {
		fmt.Fprintf(deps.Stdout, "  [%d] %s (%s)\n      %s\n", i+1, s.Title, s.Type, s.URL)
	}
	if resp.Cached {
		fmt.Fprintln(deps.Stdout, "(cached)")
	}
}
