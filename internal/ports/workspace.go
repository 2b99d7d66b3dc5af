package ports

import "movecli/internal/domain"

// WorkspaceAllocator hands out and reclaims script workspaces
type WorkspaceAllocator interface {
	Allocate(ephemeral bool, hint string) (*domain.Workspace, error)
	Release(ws *domain.Workspace)
	Reset(ws *domain.Workspace) error
	Snapshot(ws *domain.Workspace, dst string) error
}
