package sshexec

import "testing"

func TestBuildAttachCommand(t *testing.T) {
	got := BuildAttachCommand("hostA", "web", DefaultSession)
	want := `ssh hostA -t 'docker exec -it web bash -c "tmux attach-session -t nvim || tmux new-session -s nvim"'`
	if got != want {
		t.Fatalf("attach command mismatch\nwant=%s\n got=%s", want, got)
	}
}

func TestBuildForwardCommand(t *testing.T) {
	got := BuildForwardCommand("hostA", "172.17.0.2", "8080")
	want := "ssh -L 8080:172.17.0.2:8080 hostA -N"
	if got != want {
		t.Fatalf("forward command mismatch\nwant=%s\n got=%s", want, got)
	}
}

func TestBuildCommandsDoNotEscape(t *testing.T) {
	// Verbatim interpolation is deliberate: users may rely on shell
	// expansion inside these fields.
	got := BuildForwardCommand("host-$X", "10.0.0.1", "80")
	want := "ssh -L 80:10.0.0.1:80 host-$X -N"
	if got != want {
		t.Fatalf("expected verbatim values, got %s", got)
	}
}

func TestBuildContainerShellCommand(t *testing.T) {
	got := BuildContainerShellCommand("web", "bash")
	if got != "docker exec -it web bash" {
		t.Fatalf("unexpected shell command: %s", got)
	}
}
