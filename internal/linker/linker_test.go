package linker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillctl-labs/skillctl/internal/registry"
)

type fixture struct {
	root    string
	source  registry.Source
	targets []string
}

func newFixture(t *testing.T, skills ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "skills")
	for _, name := range skills {
		dir := filepath.Join(src, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		body := "---\nname: " + name + "\ndescription: test skill\n---\n"
		if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &fixture{
		root:    root,
		source:  registry.Source{Name: "local", Path: src},
		targets: []string{filepath.Join(root, "claude"), filepath.Join(root, "codex")},
	}
}

func (f *fixture) scan(t *testing.T, name string) *registry.Skill {
	t.Helper()
	skills := registry.New([]registry.Source{f.source}, f.targets).Scan()
	s, err := registry.Find(skills, name)
	if err != nil {
		t.Fatalf("finding %s: %v", name, err)
	}
	return s
}

func outcomes(r *Result) []Outcome {
	out := make([]Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.Outcome
	}
	return out
}

func assertOutcomes(t *testing.T, r *Result, want ...Outcome) {
	t.Helper()
	got := outcomes(r)
	if len(got) != len(want) {
		t.Fatalf("outcomes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("outcomes = %v, want %v", got, want)
		}
	}
}

func assertStatus(t *testing.T, s *registry.Skill, want registry.Status) {
	t.Helper()
	for target, st := range s.TargetStatus {
		if st != want {
			t.Errorf("%s at %s = %s, want %s", s.Name, target, st, want)
		}
	}
}

func TestInstallThenRescan(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	res, err := Install(s, f.targets)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	assertOutcomes(t, res, OutcomeLinked, OutcomeLinked)
	if !res.Changed() {
		t.Error("expected Changed() after linking")
	}
	if !s.Installed || s.Disabled {
		t.Errorf("in-memory flags installed=%v disabled=%v", s.Installed, s.Disabled)
	}

	fresh := f.scan(t, "writer")
	assertStatus(t, fresh, registry.StatusInstalled)
	if !fresh.Installed || fresh.Disabled {
		t.Errorf("rescanned flags installed=%v disabled=%v", fresh.Installed, fresh.Disabled)
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	if _, err := Install(s, f.targets); err != nil {
		t.Fatal(err)
	}
	res, err := Install(s, f.targets)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	assertOutcomes(t, res, OutcomeAlreadyLinked, OutcomeAlreadyLinked)
	if res.Changed() {
		t.Error("second install should not change anything")
	}
}

func TestDisableEnableRoundTrip(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if _, err := Install(s, f.targets); err != nil {
		t.Fatal(err)
	}

	res, err := Disable(s, f.targets)
	if err != nil {
		t.Fatalf("Disable: %v", err)
	}
	assertOutcomes(t, res, OutcomeDisabled, OutcomeDisabled)
	if !s.Installed || !s.Disabled {
		t.Errorf("after disable installed=%v disabled=%v", s.Installed, s.Disabled)
	}
	parked := filepath.Join(f.targets[0], registry.DisabledDir, "writer")
	if _, err := os.Lstat(parked); err != nil {
		t.Errorf("expected parked link at %s: %v", parked, err)
	}
	assertStatus(t, f.scan(t, "writer"), registry.StatusDisabled)

	res, err = Enable(s, f.targets)
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}
	assertOutcomes(t, res, OutcomeEnabled, OutcomeEnabled)
	if !s.Enabled() {
		t.Error("expected skill enabled in memory")
	}
	assertStatus(t, f.scan(t, "writer"), registry.StatusInstalled)

	// A second enable finds nothing parked.
	res, err = Enable(s, f.targets)
	if err != nil {
		t.Fatal(err)
	}
	assertOutcomes(t, res, OutcomeUnchanged, OutcomeUnchanged)
}

func TestInstallRestoresParkedLink(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if _, err := Install(s, f.targets); err != nil {
		t.Fatal(err)
	}
	if _, err := Disable(s, f.targets[:1]); err != nil {
		t.Fatal(err)
	}

	res, err := Install(s, f.targets)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	assertOutcomes(t, res, OutcomeRestored, OutcomeAlreadyLinked)
	if platformExists(filepath.Join(f.targets[0], registry.DisabledDir, "writer")) {
		t.Error("parked link should have been moved back")
	}
	assertStatus(t, f.scan(t, "writer"), registry.StatusInstalled)
}

func TestInstallConflictLeavesForeignEntry(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	foreign := filepath.Join(f.targets[0], "writer")
	if err := os.MkdirAll(foreign, 0o755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(foreign, "keep.txt")
	if err := os.WriteFile(marker, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Install(s, f.targets)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	assertOutcomes(t, res, OutcomeConflict, OutcomeLinked)
	if c := res.Conflicts(); len(c) != 1 || c[0].Target != f.targets[0] {
		t.Errorf("Conflicts() = %+v", c)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("foreign directory was modified: %v", err)
	}

	fresh := f.scan(t, "writer")
	if fresh.TargetStatus[f.targets[0]] != registry.StatusNotInstalled {
		t.Errorf("copy should not reconcile as installed, got %s", fresh.TargetStatus[f.targets[0]])
	}
}

func TestUninstallKeepsPlainDirectories(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if _, err := Install(s, f.targets[1:]); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(f.targets[0], "writer")
	if err := os.MkdirAll(plain, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Uninstall(s, f.targets)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	assertOutcomes(t, res, OutcomeKept, OutcomeRemoved)
	if _, err := os.Stat(plain); err != nil {
		t.Errorf("plain directory removed: %v", err)
	}
	if s.Installed || s.Disabled {
		t.Errorf("after uninstall installed=%v disabled=%v", s.Installed, s.Disabled)
	}
	assertStatus(t, f.scan(t, "writer"), registry.StatusNotInstalled)
}

func TestUninstallRemovesParkedLinks(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if _, err := Install(s, f.targets); err != nil {
		t.Fatal(err)
	}
	if _, err := Disable(s, f.targets); err != nil {
		t.Fatal(err)
	}

	res, err := Uninstall(s, f.targets)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	assertOutcomes(t, res, OutcomeRemoved, OutcomeRemoved)
	for _, target := range f.targets {
		if platformExists(filepath.Join(target, registry.DisabledDir, "writer")) {
			t.Errorf("parked link left in %s", target)
		}
	}
}

func TestEnableConflictWhenSlotOccupied(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if _, err := Install(s, f.targets[:1]); err != nil {
		t.Fatal(err)
	}
	if _, err := Disable(s, f.targets[:1]); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(f.targets[0], "writer"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Enable(s, f.targets[:1])
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}
	assertOutcomes(t, res, OutcomeConflict)
	if !platformExists(filepath.Join(f.targets[0], registry.DisabledDir, "writer")) {
		t.Error("parked link should stay parked on conflict")
	}
}

func TestInstallPartialFailure(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	// The second target is a regular file, so nothing can be linked inside it.
	if err := os.WriteFile(f.targets[1], []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Install(s, f.targets)
	var ae *ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if ae.Target != f.targets[1] || ae.Action != ActionInstall || !ae.Partial {
		t.Errorf("ActionError = %+v", ae)
	}
	assertOutcomes(t, res, OutcomeLinked)
	if s.Installed {
		t.Error("in-memory skill should be untouched after a failed action")
	}

	fresh := f.scan(t, "writer")
	if fresh.TargetStatus[f.targets[0]] != registry.StatusInstalled {
		t.Error("first target should stay linked after the failure")
	}
}

func TestInstallFailureWithoutChanges(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	if err := os.WriteFile(f.targets[0], []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Install(s, f.targets)
	var ae *ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if ae.Partial {
		t.Error("Partial should be false when the first target fails")
	}
}

var errInjected = errors.New("injected failure")

// parkLink creates <target>/.disabled/<name> pointing at dest.
func parkLink(t *testing.T, target, name, dest string) string {
	t.Helper()
	parked := filepath.Join(target, registry.DisabledDir, name)
	if err := os.MkdirAll(filepath.Dir(parked), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dest, parked); err != nil {
		t.Fatal(err)
	}
	return parked
}

func TestUninstallFailureAfterRemovingTopLink(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	target := f.targets[0]
	if _, err := Install(s, []string{target}); err != nil {
		t.Fatal(err)
	}
	parked := parkLink(t, target, "writer", s.SourcePath)

	orig := removeLink
	removeLink = func(path string) error {
		if strings.Contains(path, registry.DisabledDir) {
			return errInjected
		}
		return orig(path)
	}
	t.Cleanup(func() { removeLink = orig })

	res, err := Uninstall(s, []string{target})
	var ae *ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if !ae.Partial || !errors.Is(err, errInjected) {
		t.Errorf("ActionError = %+v, want a partial failure", ae)
	}
	if !strings.Contains(err.Error(), "partially changed") {
		t.Errorf("error = %q", err)
	}
	assertOutcomes(t, res, OutcomeRemoved)
	if platformExists(filepath.Join(target, "writer")) {
		t.Error("top-level link should already be gone")
	}
	if !platformExists(parked) {
		t.Error("parked link should remain after the failure")
	}
	if !s.Installed {
		t.Error("in-memory skill should be untouched after a failed action")
	}
}

func TestDisableFailureAfterReplacingParkedLink(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")
	target := f.targets[0]
	if _, err := Install(s, []string{target}); err != nil {
		t.Fatal(err)
	}
	parked := parkLink(t, target, "writer", s.SourcePath)

	orig := moveEntry
	moveEntry = func(src, dst string) error { return errInjected }
	t.Cleanup(func() { moveEntry = orig })

	res, err := Disable(s, []string{target})
	var ae *ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if !ae.Partial {
		t.Error("Partial should be true once the parked link was replaced")
	}
	assertOutcomes(t, res, OutcomeRemoved)
	if platformExists(parked) {
		t.Error("old parked link should have been removed")
	}
	if !platformExists(filepath.Join(target, "writer")) {
		t.Error("top-level link should stay in place when parking fails")
	}
}

func TestActionsLeaveLinksToOtherSources(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	other := filepath.Join(f.root, "vendor", "writer")
	if err := os.MkdirAll(other, 0o755); err != nil {
		t.Fatal(err)
	}
	top := filepath.Join(f.targets[0], "writer")
	if err := os.MkdirAll(f.targets[0], 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(other, top); err != nil {
		t.Fatal(err)
	}
	parked := parkLink(t, f.targets[1], "writer", other)

	res, err := Uninstall(s, f.targets)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	assertOutcomes(t, res, OutcomeConflict, OutcomeConflict)

	res, err = Disable(s, f.targets[:1])
	if err != nil {
		t.Fatalf("Disable: %v", err)
	}
	assertOutcomes(t, res, OutcomeConflict)

	res, err = Enable(s, f.targets[1:])
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}
	assertOutcomes(t, res, OutcomeConflict)

	for _, p := range []string{top, parked} {
		if !platformExists(p) {
			t.Errorf("link to another source removed: %s", p)
		}
	}
	if platformExists(filepath.Join(f.targets[0], registry.DisabledDir, "writer")) {
		t.Error("link to another source was parked")
	}
}

func TestApplyDispatch(t *testing.T) {
	f := newFixture(t, "writer")
	s := f.scan(t, "writer")

	for _, word := range []string{"install", "disable", "enable", "uninstall"} {
		action, ok := ParseAction(word)
		if !ok {
			t.Fatalf("ParseAction(%q) failed", word)
		}
		res, err := Apply(action, s, f.targets)
		if err != nil {
			t.Fatalf("%s: %v", word, err)
		}
		if res.Action != action {
			t.Errorf("Result.Action = %s, want %s", res.Action, action)
		}
	}
	if _, ok := ParseAction("purge"); ok {
		t.Error("ParseAction accepted an unknown action")
	}
	if _, err := Apply("purge", s, f.targets); err == nil {
		t.Error("Apply accepted an unknown action")
	}
}

func platformExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
