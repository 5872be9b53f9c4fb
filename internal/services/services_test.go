package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store/memory"
)

// newTestEnv builds the full service aggregate over in-memory fakes.
func newTestEnv() (*memory.Store, *memory.ObjectStorage, *Services) {
	mem := memory.New()
	files := memory.NewObjectStorage("http://localhost:8080/files")
	svcs := NewServices(mem.Stores(), files, auth.NewJWTService("test-secret"))
	return mem, files, svcs
}

func asCaller(id uuid.UUID, role models.Role) auth.Caller {
	return auth.Caller{UserID: id, Role: role}
}
