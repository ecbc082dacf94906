package taskgraph

import (
	"errors"
	"testing"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestRegister_Duplicate(t *testing.T) {
	g := New()
	require.NoError(t, g.Register(&Task{Name: "Restore"}))

	err := g.Register(&Task{Name: "restore"})
	var dup *DuplicateTaskError
	require.True(t, errors.As(err, &dup), "expected DuplicateTaskError, got %v", err)
	require.Equal(t, "restore", dup.Name)
	require.True(t, derrors.IsCategory(err, derrors.CategoryGraph))
	require.Equal(t, 1, g.Len())
}

func TestRegister_EmptyName(t *testing.T) {
	g := New()
	err := g.Register(&Task{})
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
	require.Error(t, g.Register(nil))
}

func TestRegister_CopiesDefinition(t *testing.T) {
	g := New()
	deps := []string{"a"}
	task := &Task{Name: "b", DependsOn: deps}
	require.NoError(t, g.Register(task))

	deps[0] = "mutated"
	task.Name = "renamed"

	got, ok := g.Lookup("B")
	require.True(t, ok)
	require.Equal(t, "b", got.Name)
	require.Equal(t, []string{"a"}, got.DependsOn)
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	g := New()
	require.Panics(t, func() {
		g.MustRegister(&Task{Name: "a"}, &Task{Name: "A"})
	})
}

func TestTasks_RegistrationOrder(t *testing.T) {
	g := New()
	g.MustRegister(&Task{Name: "c"}, &Task{Name: "a"}, &Task{Name: "b"})

	var names []string
	for _, task := range g.Tasks() {
		names = append(names, task.Name)
	}
	require.Equal(t, []string{"c", "a", "b"}, names)
}
