package metrics

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// DockerMetrics is an overview of the containers on the host.
type DockerMetrics struct {
	Available  bool            `json:"available"`
	Version    string          `json:"version,omitempty"`
	Containers []ContainerInfo `json:"containers"`
	Summary    DockerSummary   `json:"summary"`
}

// DockerSummary provides a quick overview of container states.
type DockerSummary struct {
	Total   int `json:"total"`
	Running int `json:"running"`
	Paused  int `json:"paused"`
	Stopped int `json:"stopped"`
}

// ContainerInfo describes a single container.
type ContainerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	State  string `json:"state"`
	Status string `json:"status"`
}

// GetDockerMetrics lists the containers on the host. When the Docker
// daemon is unreachable the result reports Available=false instead of
// an error; a host without Docker is not a failed request.
func GetDockerMetrics(ctx context.Context) *DockerMetrics {
	metrics := &DockerMetrics{Containers: []ContainerInfo{}}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return metrics
	}
	defer cli.Close()

	version, err := cli.ServerVersion(ctx)
	if err != nil {
		return metrics
	}
	metrics.Available = true
	metrics.Version = version.Version

	containers, err := cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return metrics
	}

	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}

		metrics.Containers = append(metrics.Containers, ContainerInfo{
			ID:     c.ID[:12],
			Name:   name,
			Image:  c.Image,
			State:  c.State,
			Status: c.Status,
		})

		metrics.Summary.Total++
		switch c.State {
		case "running":
			metrics.Summary.Running++
		case "paused":
			metrics.Summary.Paused++
		default:
			metrics.Summary.Stopped++
		}
	}

	return metrics
}
