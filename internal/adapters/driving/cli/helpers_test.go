package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
	"github.com/floorwise/floorwise-cli/internal/core/ports/driving"
)

// --- Fakes for the driving ports ---

type fakeRetrieval struct {
	hits  []domain.RetrievalHit
	debug domain.RetrievalDebug
	err   error

	lastOpts domain.RetrievalOptions
}

func (f *fakeRetrieval) Retrieve(_ context.Context, _ string, opts domain.RetrievalOptions) ([]domain.RetrievalHit, domain.RetrievalDebug, error) {
	f.lastOpts = opts
	return f.hits, f.debug, f.err
}

type fakeAnswer struct {
	answer *driving.Answer
	err    error
}

func (f *fakeAnswer) Answer(context.Context, string, domain.RetrievalOptions) (*driving.Answer, error) {
	return f.answer, f.err
}

type fakeIngest struct {
	report domain.IngestReport
	err    error
}

func (f *fakeIngest) Ingest(context.Context, string, string) (domain.IngestReport, error) {
	return f.report, f.err
}

type fakeNote struct {
	note  *domain.Note
	notes []domain.Note
	err   error
}

func (f *fakeNote) Create(context.Context, string, string) (*domain.Note, error) {
	return f.note, f.err
}

func (f *fakeNote) List(context.Context) ([]domain.Note, error) {
	return f.notes, f.err
}

type fakeMachine struct {
	id       string
	machines []domain.Machine
	manual   *domain.Manual
	err      error

	linked [][2]string
}

func (f *fakeMachine) AddMachine(context.Context, string, string) (string, error) {
	return f.id, f.err
}

func (f *fakeMachine) ListMachines(context.Context) ([]domain.Machine, error) {
	return f.machines, f.err
}

func (f *fakeMachine) AddManual(context.Context, string, string, string) (*domain.Manual, error) {
	return f.manual, f.err
}

func (f *fakeMachine) LinkManual(_ context.Context, machineName, manualID string) error {
	f.linked = append(f.linked, [2]string{machineName, manualID})
	return f.err
}

// fakeCorpus only answers machine lookups, which is all the CLI layer
// touches directly.
type fakeCorpus struct {
	driven.CorpusStore
	machines map[string]string // name -> ID
}

func (f *fakeCorpus) GetMachineByName(_ context.Context, name string) (*domain.Machine, error) {
	id, ok := f.machines[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Machine{ID: id, Name: name}, nil
}

func (f *fakeCorpus) Close() error { return nil }

// fakeConfig is an in-memory config store.
type fakeConfig struct {
	values map[string]any
}

func (f *fakeConfig) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfig) GetString(key string) string {
	v, _ := f.values[key].(string)
	return v
}

func (f *fakeConfig) GetInt(key string) int {
	switch v := f.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (f *fakeConfig) GetFloat(key string) float64 {
	v, _ := f.values[key].(float64)
	return v
}

func (f *fakeConfig) GetBool(key string) bool {
	v, _ := f.values[key].(bool)
	return v
}

func (f *fakeConfig) Set(key string, value any) error {
	f.values[key] = value
	return nil
}

func (f *fakeConfig) Save() error { return nil }
func (f *fakeConfig) Load() error { return nil }
func (f *fakeConfig) Path() string {
	return "/tmp/floorwise-test/config.toml"
}

// testServices bundles the fakes wired by setupTestServices.
type testServices struct {
	retrieval *fakeRetrieval
	answer    *fakeAnswer
	ingest    *fakeIngest
	note      *fakeNote
	machine   *fakeMachine
	corpus    *fakeCorpus
	config    *fakeConfig
}

// setupTestServices wires fake services into the package variables and
// restores the untouched state on cleanup.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	fakes := &testServices{
		retrieval: &fakeRetrieval{},
		answer:    &fakeAnswer{answer: &driving.Answer{Text: "fake answer"}},
		ingest:    &fakeIngest{},
		note:      &fakeNote{note: &domain.Note{ID: "note-1"}},
		machine:   &fakeMachine{id: "machine-1", manual: &domain.Manual{ID: "manual-1", Title: "Manual"}},
		corpus:    &fakeCorpus{machines: map[string]string{"Haas VF-2": "machine-1"}},
		config:    &fakeConfig{values: make(map[string]any)},
	}

	servicesReady = true
	configStore = fakes.config
	corpusStore = fakes.corpus
	retrievalService = fakes.retrieval
	answerService = fakes.answer
	ingestService = fakes.ingest
	noteService = fakes.note
	machineService = fakes.machine

	t.Cleanup(func() {
		servicesReady = false
		configStore = nil
		corpusStore = nil
		retrievalService = nil
		answerService = nil
		ingestService = nil
		noteService = nil
		machineService = nil
	})

	return fakes
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
