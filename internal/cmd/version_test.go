/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crpt-tools/crptapi/internal/libinfo"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(context.Background(), "", "version")
	require.NoError(t, err)
	require.Equal(t, "crptapi "+libinfo.GetVersion()+" (User-Agent: "+libinfo.UserAgent()+")\n", out)
}
