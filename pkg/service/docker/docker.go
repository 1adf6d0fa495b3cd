package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

type Service struct {
	Binary string
}

func FromPath(ctx context.Context) (Service, error) {
	binary, err := exec.LookPath("docker")
	if err != nil {
		return Service{}, err
	}

	return Service{Binary: binary}, nil
}

func (s Service) Login(ctx context.Context, registryUrl, username, password string) error {
	cmd := exec.CommandContext(ctx, s.Binary, "login", "--username", username, "--password", password, registryUrl)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		return err
	}

	return nil
}

type BuildInput struct {
	Path     string
	Platform string
	Labels   map[string]string
	Tags     []string
}

func (s Service) Build(ctx context.Context, in BuildInput) error {
	envs := []string{
		"DOCKER_BUILDKIT=1",
	}

	args := []string{
		"build",
		"-f", filepath.Join(in.Path, "Dockerfile"),
	}

	if in.Platform != "" {
		args = append(args, "--platform", in.Platform)
	}

	for _, tag := range in.Tags {
		args = append(args, "-t", tag)
	}

	keys := make([]string, 0, len(in.Labels))
	for key := range in.Labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, "--label", fmt.Sprintf("%s=%s", key, in.Labels[key]))
	}

	args = append(args, in.Path)

	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Env = append(os.Environ(), envs...)
	cmd.Stderr = os.Stderr

	_, err := cmd.Output()
	if err != nil {
		return err
	}

	return nil
}

func (s Service) Push(ctx context.Context, tag string) error {
	cmd := exec.CommandContext(ctx, s.Binary, "push", tag)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		return err
	}

	return nil
}

type RunInput struct {
	ImageUri      string
	Platform      string
	HostPort      string
	ContainerPort string
	Environment   map[string]string
}

// Run starts the image in the foreground with the given configuration map, mirroring what lambda hands the container.
func (s Service) Run(ctx context.Context, in RunInput) error {
	argv := []string{
		"run",
		"--rm",
		"-p", in.HostPort + ":" + in.ContainerPort,
	}

	if in.Platform != "" {
		argv = append(argv, "--platform", in.Platform)
	}

	keys := make([]string, 0, len(in.Environment))
	for key := range in.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		argv = append(argv, "--env", key+"="+in.Environment[key])
	}

	argv = append(argv, in.ImageUri)

	cmd := exec.CommandContext(ctx, s.Binary, argv...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		return err
	}
	return nil
}
