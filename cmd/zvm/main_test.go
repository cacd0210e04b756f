package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
	"github.com/zenzo-ecosystem/zvm/vm"
)

const namesContext = "../../provider/testdata/names.toml"

func TestMain(m *testing.M) {
	color.Enable = false
	os.Exit(m.Run())
}

func runZVM(t *testing.T, args ...string) (string, error) {
	t.Helper()
	contextFile, dbPath, thisTx, maxSteps = "", "", "", 0
	standardID = vm.ZFI1
	numWorkers, cacheSize, quietFlag = 0, 0, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runZVM(t, "version")
	require.NoError(t, err)
	require.Equal(t, "zvm version "+version+"\n", out)
}

func TestExecCommand(t *testing.T) {
	out, err := runZVM(t, "exec", "1 2 ADD")
	require.NoError(t, err)
	require.Contains(t, out, "status:  success")
	require.Contains(t, out, "value:   3")
	require.Contains(t, out, "message: Script executed successfully")

	out, err = runZVM(t, "exec", "1 HEX:02 ADD")
	require.ErrorIs(t, err, vm.ErrOperandType)
	require.Contains(t, out, "status:  failure")

	_, err = runZVM(t, "exec", "1 2 ADD 3 ADD", "--max-steps", "2")
	require.ErrorIs(t, err, vm.ErrStepLimit)
}

func TestExecWithContext(t *testing.T) {
	script := "HEX:616c696365 ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN"

	out, err := runZVM(t, "exec", script, "--context", namesContext)
	require.NoError(t, err)
	require.Contains(t, out, "valid:   false")

	out, err = runZVM(t, "exec", script, "--context", namesContext, "--this", strings.Repeat("a", 64))
	require.NoError(t, err)
	require.Contains(t, out, "valid:   true")

	_, err = runZVM(t, "exec", "GETBESTBLK DUP", "--this", strings.Repeat("a", 64))
	require.Error(t, err)

	_, err = runZVM(t, "exec", "GETBESTBLK DUP", "--context", namesContext, "--db", "x.db")
	require.Error(t, err)
}

func TestTraceCommand(t *testing.T) {
	out, err := runZVM(t, "trace", "1 2 ADD")
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(out, "*******"))
	require.Contains(t, out, "NextOp: ADD (opcode)")
	require.Contains(t, out, "Stack: [3]")
	require.Contains(t, out, "Finished")

	out, err = runZVM(t, "trace", "0 CONTINUETRUE 5")
	require.NoError(t, err)
	require.Contains(t, out, "Discontinued")

	_, err = runZVM(t, "trace", "1 FOO")
	require.ErrorIs(t, err, vm.ErrUnrecognizedToken)
}

func TestInspectCommands(t *testing.T) {
	out, err := runZVM(t, "parse", "HEX:61 12 ADD JUMP")
	require.NoError(t, err)
	require.Contains(t, out, "HEX:61")
	require.Contains(t, out, "opcode")
	require.Contains(t, out, vm.ErrUnrecognizedToken.Error())

	out, err = runZVM(t, "conforms", "HEX:61 ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN")
	require.NoError(t, err)
	require.Equal(t, "conforms to ZFI-1\n", out)

	out, err = runZVM(t, "conforms", "1 2 ADD")
	require.NoError(t, err)
	require.Equal(t, "does not conform to ZFI-1\n", out)

	_, err = runZVM(t, "conforms", "1 2 ADD", "--standard", "ZFI-9")
	require.Error(t, err)

	out, err = runZVM(t, "contextual", "HEX:61 ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN")
	require.NoError(t, err)
	require.Equal(t, "ISNAMEUSED\nGETITEMEPOCH\ncost: 24\n", out)

	out, err = runZVM(t, "contextual", "1 2 ADD")
	require.NoError(t, err)
	require.Equal(t, "none\ncost: 3\n", out)

	out, err = runZVM(t, "opcodes")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(vm.Opcodes()))

	out, err = runZVM(t, "standards")
	require.NoError(t, err)
	require.Contains(t, out, "ZFI-1")
	require.Contains(t, out, "{native_string} ISNAMEUSED")
}

func TestValidateAndImport(t *testing.T) {
	out, err := runZVM(t, "validate", "--context", namesContext, "--workers", "2", "--cache", "8")
	require.NoError(t, err)
	require.Contains(t, out, "total 3, valid 2, invalid 1, failed 0, skipped 0")
	require.Contains(t, out, "INVALID bbbbbbbbbbbb alice")

	db := filepath.Join(t.TempDir(), "items.db")
	out, err = runZVM(t, "import", namesContext, "--db", db)
	require.NoError(t, err)
	require.Contains(t, out, "imported 3 items")

	out, err = runZVM(t, "validate", "--db", db, "--quiet")
	require.NoError(t, err)
	require.Equal(t, "total 3, valid 2, invalid 1, failed 0, skipped 0\n", out)

	_, err = runZVM(t, "validate")
	require.Error(t, err)
	_, err = runZVM(t, "import", namesContext)
	require.Error(t, err)
}
