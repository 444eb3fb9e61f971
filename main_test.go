package main

import "testing"

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "profiles"} {
		if _, ok := commands[name]; !ok {
			t.Errorf("command %q not registered", name)
		}
	}
	if _, ok := commands["bogus"]; ok {
		t.Error("unexpected command registered")
	}
}
