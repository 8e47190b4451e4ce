package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_SubCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "seed-admin", "words", "import"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestWordsCommand(t *testing.T) {
	out, err := run(t, "words", "1205")
	require.NoError(t, err)
	assert.Equal(t, "one thousand two hundred and five Taka Only\n", out)

	out, err = run(t, "words", "500", "--lang", "bn")
	require.NoError(t, err)
	assert.Equal(t, "পাঁচ শত টাকা মাত্র\n", out)

	_, err = run(t, "words", "12.50")
	assert.Error(t, err)

	_, err = run(t, "words", "--", "-9223372036854775808")
	assert.ErrorContains(t, err, "negative")
}

func TestImportCustomersDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.txt")
	text := "Name\tPhone\tAddress\tDue\nRahim\t01811111111\t\t1,200\nSalma\t01922222222\tHat Pangashi\t0\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	out, err := run(t, "import", "customers", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "name,number,address,opening_due")
	assert.Contains(t, out, "Rahim,01811111111,Unknown,1200")
	assert.Contains(t, out, "Salma,01922222222,Hat Pangashi,0")
}

func TestImportCustomersDryRun_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("Name,Phone\n"), 0o600))

	out, err := run(t, "import", "customers", path, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "no customer rows found\n", out)
}

func TestImportCustomers_MissingFile(t *testing.T) {
	_, err := run(t, "import", "customers", filepath.Join(t.TempDir(), "nope.txt"), "--dry-run")
	assert.Error(t, err)
}
