package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// maxUploadSize is the inclusive presentation file size limit.
const maxUploadSize = 50 * 1024 * 1024

// allowedUploadTypes are the accepted presentation MIME types: PDF,
// PPT and PPTX.
var allowedUploadTypes = map[string]bool{
	"application/pdf":                true,
	"application/vnd.ms-powerpoint":  true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// fileUploadService implements FileUploadService
type fileUploadService struct {
	store *store.Store
	files store.ObjectStorage
}

func newFileUploadService(st *store.Store, files store.ObjectStorage) FileUploadService {
	return &fileUploadService{store: st, files: files}
}

// UploadPresentation stores the file under presentations/{project}/ and
// points the project's presentation URL at it. Uploading again
// overwrites the previous URL.
func (s *fileUploadService) UploadPresentation(caller auth.Caller, projectID uuid.UUID, file *FileUpload) (*UploadResult, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can upload presentations")
	}

	member, err := s.isTeamMember(caller.UserID, projectID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.Authorization("Only team members can upload presentations for this project")
	}

	if err := validateUpload(file); err != nil {
		return nil, err
	}

	filePath := fmt.Sprintf("presentations/%s/%s", projectID, file.Name)
	if err := s.files.Upload(filePath, file.Data); err != nil {
		return nil, apperr.Internal("failed to upload file", err)
	}

	publicURL := s.files.GetPublicURL(filePath)
	if err := s.store.Projects.SetPresentationURL(projectID, &publicURL); err != nil {
		return nil, apperr.Internal("failed to link presentation", err)
	}

	return &UploadResult{FilePath: filePath, PublicURL: publicURL}, nil
}

// DeletePresentation removes the stored file and clears the project's
// presentation URL.
func (s *fileUploadService) DeletePresentation(caller auth.Caller, projectID uuid.UUID) error {
	if caller.Role != models.RoleStudent {
		return apperr.Authorization("Only students can delete presentations")
	}

	member, err := s.isTeamMember(caller.UserID, projectID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Authorization("Only team members can delete presentations")
	}

	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		return apperr.Internal("failed to load project", err)
	}
	if project == nil {
		return apperr.Validation("Project not found")
	}
	if project.PresentationURL == nil || *project.PresentationURL == "" {
		return apperr.Validation("No presentation to delete")
	}

	// The public URL embeds the storage path after /presentations/.
	url := *project.PresentationURL
	if _, rest, found := strings.Cut(url, "/presentations/"); found {
		if err := s.files.Remove([]string{"presentations/" + rest}); err != nil {
			return apperr.Internal("failed to remove file", err)
		}
	}

	if err := s.store.Projects.SetPresentationURL(projectID, nil); err != nil {
		return apperr.Internal("failed to unlink presentation", err)
	}
	return nil
}

// GetStudentProjects lists the projects whose team includes the
// caller's full name.
func (s *fileUploadService) GetStudentProjects(caller auth.Caller) ([]models.Project, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can view their projects")
	}

	profile, err := s.store.Profiles.GetByUserID(caller.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to load profile", err)
	}
	if profile == nil || profile.FullName == "" {
		return []models.Project{}, nil
	}

	projects, err := s.store.Projects.ListAll()
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}

	mine := []models.Project{}
	for _, p := range projects {
		for _, name := range p.TeamMembers {
			if name == profile.FullName {
				mine = append(mine, p)
				break
			}
		}
	}
	return mine, nil
}

func (s *fileUploadService) isTeamMember(userID, projectID uuid.UUID) (bool, error) {
	profile, err := s.store.Profiles.GetByUserID(userID)
	if err != nil {
		return false, apperr.Internal("failed to load profile", err)
	}
	if profile == nil {
		return false, nil
	}

	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		return false, apperr.Internal("failed to load project", err)
	}
	if project == nil {
		return false, nil
	}

	for _, name := range project.TeamMembers {
		if name == profile.FullName {
			return true, nil
		}
	}
	return false, nil
}

func validateUpload(file *FileUpload) error {
	if file == nil {
		return apperr.Validation("No file provided")
	}
	if !allowedUploadTypes[file.ContentType] {
		return apperr.Validation("File type not allowed. Allowed types: PDF, PPT, PPTX")
	}
	if file.Size > maxUploadSize {
		return apperr.Validation("File too large. Maximum size: 50MB")
	}
	if file.Name == "" {
		return apperr.Validation("File must have a name")
	}
	return nil
}
