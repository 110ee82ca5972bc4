// Shared helpers for dmvault CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tablefolk/dmvault/internal/store"
	"github.com/tablefolk/dmvault/pkg/types"
)

// openStores resolves the data directory and returns the campaign and
// character stores bound to it.
func openStores() (*store.CampaignStore, *store.CharacterStore, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	return store.NewCampaignStore(dataDir), store.NewCharacterStore(dataDir), nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// fail prints the error and exits. User errors (bad input, failed lookups,
// rule violations) exit 1; infrastructure errors exit 2.
func fail(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)

	var e *types.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case types.KindStorage, types.KindSerialization, types.KindInternal:
			os.Exit(exitSysError)
		}
	}
	os.Exit(exitUserError)
}

// syncCampaignStats recomputes a campaign's character statistics from its
// character file and writes them back to the campaign record. Called after
// every character mutation that affects counts or levels.
func syncCampaignStats(campaigns *store.CampaignStore, characters *store.CharacterStore, campaignID string) error {
	active, total, avg, err := characters.Stats(campaignID)
	if err != nil {
		return err
	}
	_, err = campaigns.UpdateStats(campaignID, active, total, avg)
	return err
}

// optString returns a pointer to s when the flag was changed, else nil.
func optString(changed bool, s string) *string {
	if !changed {
		return nil
	}
	return &s
}

// optInt returns a pointer to n when the flag was changed, else nil.
func optInt(changed bool, n int) *int {
	if !changed {
		return nil
	}
	return &n
}

// optUint returns a pointer to n when the flag was changed, else nil.
func optUint(changed bool, n uint) *uint {
	if !changed {
		return nil
	}
	return &n
}

// optBool returns a pointer to b when the flag was changed, else nil.
func optBool(changed bool, b bool) *bool {
	if !changed {
		return nil
	}
	return &b
}
