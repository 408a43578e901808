package cli_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/wellplan/internal/cli"
	"github.com/aretw0/wellplan/pkg/adapters/file"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const station = "testdata/station.yaml"

func fileStore(dir string) cli.StoreOptions {
	return cli.StoreOptions{Kind: cli.StoreFile, Dir: dir}
}

func TestOpenStore(t *testing.T) {
	p, err := cli.OpenStore(cli.StoreOptions{Kind: cli.StoreMemory})
	require.NoError(t, err)
	assert.NotNil(t, p.Store)
	assert.NotNil(t, p.Locker)
	assert.NoError(t, p.Close())

	p, err = cli.OpenStore(fileStore(t.TempDir()))
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, p.Store)

	_, err = cli.OpenStore(cli.StoreOptions{Kind: "etcd"})
	assert.Error(t, err)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	p, err := cli.OpenStore(cli.StoreOptions{Kind: cli.StoreRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.Store.Save(ctx, domain.NewRunState("r-1", "station")))
	ids, err := p.Store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1"}, ids)

	unlock, err := p.Locker.Lock(ctx, "r-1", 0)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestStoreOptionsFromEnv(t *testing.T) {
	t.Setenv(cli.EnvStore, "redis")
	t.Setenv(cli.EnvRedisAddr, "redis:6380")
	t.Setenv(cli.EnvStoreDir, "")

	opts := cli.StoreOptionsFromEnv()
	assert.Equal(t, "redis", opts.Kind)
	assert.Equal(t, "redis:6380", opts.RedisAddr)
	assert.Equal(t, file.DefaultDir, opts.Dir)
}

func TestExecute_SimulatedRun(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := cli.Execute(context.Background(), cli.RunOptions{
		ProtocolPath: station,
		RunID:        "sim-1",
		Store:        fileStore(dir),
		LogLevel:     "error",
	}, strings.NewReader(""), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "300 µl from Beads[0:A1] at 0.50 mm")
	assert.Contains(t, text, "300 µl from Beads[1:A2] at 0.50 mm")
	assert.Contains(t, text, "Run 'sim-1' completed (5 steps).")
	assert.NotContains(t, text, "\x1b[", "no styling when stdout is not a terminal")

	state, err := file.New(dir).Load(context.Background(), "sim-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, state.Status)
	assert.Equal(t, []float64{75}, state.Reservoirs[0].DepletedWellLog)
}

func TestExecute_JSON(t *testing.T) {
	var out bytes.Buffer

	err := cli.Execute(context.Background(), cli.RunOptions{
		ProtocolPath: station,
		JSON:         true,
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
		LogLevel:     "error",
	}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var types []domain.CommandType
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var e runner.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		require.Equal(t, runner.EventCommand, e.Type)
		types = append(types, e.Command.Type)
	}
	assert.Equal(t, []domain.CommandType{
		domain.CommandPickUpTip,
		domain.CommandMix, domain.CommandAspirate,
		domain.CommandMix, domain.CommandAspirate,
		domain.CommandDispense,
		domain.CommandDropTip,
		domain.CommandPause,
	}, types)
}

func TestExecute_LiveRunPausesOnCheckpoint(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	opts := cli.RunOptions{
		ProtocolPath: station,
		Overrides:    []string{"simulate=false"},
		RunID:        "live-1",
		Store:        fileStore(dir),
		LogLevel:     "error",
	}

	var out bytes.Buffer
	err := cli.Execute(ctx, opts, strings.NewReader("abort\n"), &out)
	assert.ErrorIs(t, err, runner.ErrOperatorDeclined)
	assert.Contains(t, out.String(), "PAUSE Move the plate")
	assert.Contains(t, out.String(), "Run 'live-1' paused at step 4.")

	opts.Resume = true
	out.Reset()
	require.NoError(t, cli.Execute(ctx, opts, strings.NewReader("\n"), &out))
	assert.Contains(t, out.String(), "Run 'live-1' completed (5 steps).")
	assert.NotContains(t, out.String(), "aspirate", "resume starts at the pause")
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	err := cli.Execute(ctx, cli.RunOptions{ProtocolPath: "testdata/missing.yaml"}, nil, &out)
	assert.Error(t, err)

	err = cli.Execute(ctx, cli.RunOptions{ProtocolPath: station, LogLevel: "loud"}, nil, &out)
	assert.ErrorContains(t, err, "unknown log level")

	err = cli.Execute(ctx, cli.RunOptions{
		ProtocolPath: station,
		Overrides:    []string{"steps.1.volume=900"},
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
	}, nil, &out)
	assert.ErrorContains(t, err, "steps[1].volume")

	err = cli.Execute(ctx, cli.RunOptions{
		ProtocolPath: station,
		Resume:       true,
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
	}, nil, &out)
	assert.ErrorContains(t, err, "--run-id")

	err = cli.Execute(ctx, cli.RunOptions{
		ProtocolPath: station,
		Resume:       true,
		RunID:        "nope",
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
	}, nil, &out)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.Validate(station, nil, false, &out))
	assert.Contains(t, out.String(), `Protocol "station" is valid!`)

	out.Reset()
	require.NoError(t, cli.Validate(station, nil, true, &out))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))

	out.Reset()
	require.NoError(t, cli.Validate(station, []string{"steps.0.repeat=9"}, false, &out))
	assert.Contains(t, out.String(), "warning: pool tips")

	assert.Error(t, cli.Validate(station, []string{"reagents.0.well_count=0"}, false, &out))
}

func TestReportAndInspect(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, cli.Execute(ctx, cli.RunOptions{
		ProtocolPath: station,
		RunID:        "rep-1",
		Store:        fileStore(dir),
		LogLevel:     "error",
	}, nil, &bytes.Buffer{}))
	store := file.New(dir)

	var out bytes.Buffer
	require.NoError(t, cli.Report(ctx, store, "rep-1", cli.FormatRaw, "", &out))
	assert.Contains(t, out.String(), "| Beads | 600.0 | 2 | 2/4 | 75.0 | 825.0 |")

	out.Reset()
	require.NoError(t, cli.Report(ctx, store, "rep-1", cli.FormatMarkdown, "notty", &out))
	assert.Contains(t, out.String(), "Beads")

	out.Reset()
	require.NoError(t, cli.Report(ctx, store, "rep-1", cli.FormatJSON, "", &out))
	var rep domain.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, 600.0, rep.Reagents[0].Aspirated)

	assert.Error(t, cli.Report(ctx, store, "rep-1", "pdf", "", &out))
	assert.ErrorIs(t, cli.Report(ctx, store, "missing", cli.FormatRaw, "", &out), domain.ErrRunNotFound)

	out.Reset()
	require.NoError(t, cli.Inspect(ctx, store, "rep-1", "", &out))
	assert.Contains(t, out.String(), `"run_id": "rep-1"`)

	out.Reset()
	require.NoError(t, cli.Inspect(ctx, store, "rep-1", station, &out))
	assert.Contains(t, out.String(), "class finish current;")

}

func TestExecute_Drivers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("driver fixture uses sh")
	}
	dir := t.TempDir()
	drivers := filepath.Join(dir, "drivers.yaml")
	require.NoError(t, os.WriteFile(drivers, []byte(`
drivers:
  - command: "*"
    exec: sh
    args: ["-c", "echo $WELLPLAN_TYPE $WELLPLAN_WELL >> robot.log"]
`), 0644))

	err := cli.Execute(context.Background(), cli.RunOptions{
		ProtocolPath: station,
		Overrides:    []string{"simulate=false"},
		DriversPath:  drivers,
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
		LogLevel:     "error",
	}, strings.NewReader("\n"), &bytes.Buffer{})
	require.NoError(t, err)

	log, err := os.ReadFile(filepath.Join(dir, "robot.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"pick_up_tip",
		"mix A1", "aspirate A1",
		"mix A2", "aspirate A2",
		"dispense",
		"drop_tip",
		"pause",
	}, strings.Split(strings.TrimSpace(string(log)), "\n"))
}

func TestExecute_DriversSkippedWhenSimulating(t *testing.T) {
	drivers := filepath.Join(t.TempDir(), "drivers.yaml")
	require.NoError(t, os.WriteFile(drivers, []byte("drivers:\n  - {command: \"*\", exec: /nonexistent}\n"), 0644))

	err := cli.Execute(context.Background(), cli.RunOptions{
		ProtocolPath: station,
		DriversPath:  drivers,
		Store:        cli.StoreOptions{Kind: cli.StoreMemory},
		LogLevel:     "error",
	}, nil, &bytes.Buffer{})
	assert.NoError(t, err)
}
