package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/openlearn/lms-extension-api/internal/models"
	appErrors "github.com/openlearn/lms-extension-api/pkg/errors"
)

type bulkEnrollmentStore interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	UpdateModeAndActive(ctx context.Context, id, mode string, isActive bool) error
}

type bulkUserResolver interface {
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}

type bulkCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListModes(ctx context.Context, courseID string) ([]models.CourseMode, error)
}

type embargoChecker interface {
	IsRestricted(ctx context.Context, courseID, userID string) (bool, error)
}

type optInRecorder interface {
	SetEmailOptIn(ctx context.Context, userID, org string, optIn bool) error
}

// EnrollmentAttribute is an opaque mode attribute forwarded with the request.
type EnrollmentAttribute struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// BulkCourseDetails nests the course identifier the way the enrollment API
// payload does.
type BulkCourseDetails struct {
	CourseID string `json:"course_id"`
}

// BulkEnrollmentRequest is the payload of the paid mass enrollment endpoint.
// IsActive is deliberately untyped: a non-boolean value must be reported as
// an invalid activation status, not as a generic unmarshal failure.
type BulkEnrollmentRequest struct {
	CourseDetails        BulkCourseDetails     `json:"course_details"`
	Users                []string              `json:"users"`
	Mode                 string                `json:"mode"`
	IsActive             interface{}           `json:"is_active"`
	EmailOptIn           *bool                 `json:"email_opt_in"`
	EnrollmentAttributes []EnrollmentAttribute `json:"enrollment_attributes"`
}

// BulkEnrollmentService applies a course-mode change to a batch of users as
// one validate-then-commit workflow. All validation and policy checks run
// before any write. The commit loop itself is sequential and best-effort:
// the first failing user halts further processing and mutations already
// applied in the same loop are not rolled back. Likewise nothing guards
// against a concurrent mode change between the policy read and the commit
// write. Both limitations are inherited from the host mutation calls, which
// are not individually transactional.
type BulkEnrollmentService struct {
	enrollments bulkEnrollmentStore
	users       bulkUserResolver
	courses     bulkCourseReader
	embargo     embargoChecker
	preferences optInRecorder
	logger      *zap.Logger
}

// NewBulkEnrollmentService constructs BulkEnrollmentService.
func NewBulkEnrollmentService(enrollments bulkEnrollmentStore, users bulkUserResolver, courses bulkCourseReader, embargo embargoChecker, preferences optInRecorder, logger *zap.Logger) *BulkEnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkEnrollmentService{
		enrollments: enrollments,
		users:       users,
		courses:     courses,
		embargo:     embargo,
		preferences: preferences,
		logger:      logger,
	}
}

// Enroll validates and applies the requested mode change for every listed
// user. It returns the success confirmation message, or an error that aborts
// the whole batch.
func (s *BulkEnrollmentService) Enroll(ctx context.Context, req BulkEnrollmentRequest) (string, error) {
	// Phase 1: input validation. No side effects may occur past a failure.
	if len(req.Users) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "Users must be specified to create a new enrollment.")
	}

	courseID := req.CourseDetails.CourseID
	if courseID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Course ID must be specified to create a new enrollment.")
	}
	if _, err := models.ParseCourseKey(courseID); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("No course '%s' found for enrollment", courseID))
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", appErrors.Clone(appErrors.ErrUnknownEntity, fmt.Sprintf("No course '%s' found for enrollment", courseID))
		}
		return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving course information")
	}

	resolved, err := s.users.FindByUsernames(ctx, req.Users)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while resolving users")
	}
	byUsername := make(map[string]models.User, len(resolved))
	for _, u := range resolved {
		byUsername[u.Username] = u
	}
	var unknown []string
	for _, username := range req.Users {
		if _, ok := byUsername[username]; !ok {
			unknown = append(unknown, username)
		}
	}
	if len(unknown) > 0 {
		return "", appErrors.Clone(appErrors.ErrUnknownEntity, fmt.Sprintf("Users %s do not exist.", quoteList(unknown)))
	}

	isActive := true
	if req.IsActive != nil {
		value, ok := req.IsActive.(bool)
		if !ok {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("'%v' is an invalid enrollment activation status.", req.IsActive))
		}
		isActive = value
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ModeVerified
	}

	// Phase 2: policy checks. Any restricted or mis-stated user aborts the
	// entire batch before the first write.
	var alreadyInMode []string
	var notEnrolled []string
	current := make(map[string]*models.Enrollment, len(req.Users))

	for _, username := range req.Users {
		user := byUsername[username]

		restricted, err := s.embargo.IsRestricted(ctx, courseID, user.ID)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				"An error occurred while checking enrollment restrictions")
		}
		if restricted {
			return "", appErrors.Clone(appErrors.ErrPolicyRestricted,
				fmt.Sprintf("Users from this location cannot access the course '%s'.", courseID))
		}

		enrollment, err := s.enrollments.FindByUserAndCourse(ctx, user.ID, courseID)
		if err != nil {
			if err == sql.ErrNoRows {
				notEnrolled = append(notEnrolled, username)
				continue
			}
			return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				"An error occurred while reading enrollment state")
		}
		if !enrollment.IsActive {
			notEnrolled = append(notEnrolled, username)
			continue
		}
		if enrollment.Mode == mode {
			alreadyInMode = append(alreadyInMode, username)
			continue
		}
		current[username] = enrollment
	}

	if len(alreadyInMode) > 0 || len(notEnrolled) > 0 {
		var parts []string
		if len(alreadyInMode) > 0 {
			parts = append(parts, fmt.Sprintf("users %s are already enrolled in mode '%s'", quoteList(alreadyInMode), mode))
		}
		if len(notEnrolled) > 0 {
			parts = append(parts, fmt.Sprintf("users %s are not enrolled in the course '%s'", quoteList(notEnrolled), courseID))
		}
		return "", appErrors.Clone(appErrors.ErrStateConflict,
			fmt.Sprintf("Unable to enroll: %s.", strings.Join(parts, "; ")))
	}

	modes, err := s.courses.ListModes(ctx, courseID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
			"An error occurred while retrieving course modes")
	}
	modeAvailable := false
	for _, m := range modes {
		if m.Mode == mode {
			modeAvailable = true
			break
		}
	}
	if !modeAvailable {
		return "", appErrors.Clone(appErrors.ErrStateConflict,
			fmt.Sprintf("The [%s] course mode is expired or otherwise unavailable for course run '%s'.", mode, courseID))
	}

	// Phase 3: commit. Sequential, in input order, halting on the first
	// failure with the offending user/course pair.
	for _, username := range req.Users {
		user := byUsername[username]
		enrollment := current[username]

		if err := s.enrollments.UpdateModeAndActive(ctx, enrollment.ID, mode, isActive); err != nil {
			s.logger.Error("bulk enrollment commit halted",
				zap.String("username", username), zap.String("course_id", courseID), zap.Error(err))
			return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
				fmt.Sprintf("An error occurred while updating the enrollment for user '%s' in course '%s'.", username, courseID))
		}

		if req.EmailOptIn != nil {
			if err := s.preferences.SetEmailOptIn(ctx, user.ID, course.Org, *req.EmailOptIn); err != nil {
				s.logger.Error("bulk enrollment opt-in halted",
					zap.String("username", username), zap.String("course_id", courseID), zap.Error(err))
				return "", appErrors.Wrap(err, appErrors.ErrHostService.Code, appErrors.ErrHostService.Status,
					fmt.Sprintf("An error occurred while recording the email preference for user '%s' in course '%s'.", username, courseID))
			}
		}
	}

	return fmt.Sprintf("Success for course '%s'.", courseID), nil
}

func quoteList(usernames []string) string {
	quoted := make([]string, len(usernames))
	for i, name := range usernames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}
	return strings.Join(quoted, ", ")
}
