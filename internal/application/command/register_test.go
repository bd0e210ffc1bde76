package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
)

const testMentorCode = "hizmet-2025"

func mentorCodeHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testMentorCode), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterMentorCreatesGroup(t *testing.T) {
	ctx := context.Background()
	mentorRepo := memory.NewMentorRepository()
	groupRepo := memory.NewGroupRepository()
	handler := NewRegisterMentorHandler(mentorRepo, groupRepo, mentorCodeHash(t), nopPublisher{})

	result, err := handler.Handle(ctx, RegisterMentorCommand{
		Name:       "Ali Hoca",
		Username:   "alihoca",
		GroupName:  "Barla Halkası",
		MentorCode: testMentorCode,
	})
	require.NoError(t, err)

	assert.True(t, result.MentorID.IsValid())
	assert.True(t, result.GroupID.IsValid())
	assert.Len(t, result.JoinCode, 6)

	group, err := groupRepo.GetByJoinCode(ctx, result.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, "Barla Halkası", group.Name)
	assert.Equal(t, result.MentorID, group.MentorID)
}

func TestRegisterMentorRejectsWrongCode(t *testing.T) {
	handler := NewRegisterMentorHandler(
		memory.NewMentorRepository(), memory.NewGroupRepository(), mentorCodeHash(t), nopPublisher{})

	_, err := handler.Handle(context.Background(), RegisterMentorCommand{
		Name:       "Davetsiz",
		Username:   "davetsiz",
		GroupName:  "Halka",
		MentorCode: "yanlis-kod",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidMentorCode)
}

func TestRegisterStudentJoinsByCode(t *testing.T) {
	ctx := context.Background()
	studentRepo := memory.NewStudentRepository()
	mentorRepo := memory.NewMentorRepository()
	groupRepo := memory.NewGroupRepository()

	mentorResult, err := NewRegisterMentorHandler(mentorRepo, groupRepo, mentorCodeHash(t), nopPublisher{}).
		Handle(ctx, RegisterMentorCommand{
			Name:       "Ali Hoca",
			Username:   "alihoca",
			GroupName:  "Barla Halkası",
			MentorCode: testMentorCode,
		})
	require.NoError(t, err)

	handler := NewRegisterStudentHandler(studentRepo, groupRepo, stubAvatars{}, nopPublisher{})

	result, err := handler.Handle(ctx, RegisterStudentCommand{
		Name:     "Said",
		Username: "said42",
		JoinCode: mentorResult.JoinCode,
	})
	require.NoError(t, err)
	assert.Equal(t, mentorResult.GroupID, result.GroupID)
	assert.Equal(t, "Barla Halkası", result.GroupName)
	assert.Equal(t, "https://avatars.test/Said", result.AvatarURL)

	t.Run("wrong join code", func(t *testing.T) {
		_, err := handler.Handle(ctx, RegisterStudentCommand{
			Name:     "Kayıp",
			Username: "kayip",
			JoinCode: "ZZZZ99",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidJoinCode)
	})

	t.Run("username already taken", func(t *testing.T) {
		_, err := handler.Handle(ctx, RegisterStudentCommand{
			Name:     "Başkası",
			Username: "said42",
			JoinCode: mentorResult.JoinCode,
		})
		assert.ErrorIs(t, err, shared.ErrUsernameTaken)
	})
}

func TestLoginIssuesVerifiableSession(t *testing.T) {
	ctx := context.Background()
	studentRepo := memory.NewStudentRepository()
	mentorRepo := memory.NewMentorRepository()

	stud := seedStudent(t, studentRepo, "elif")

	const signingKey = "test-signing-key"
	handler := NewLoginHandler(studentRepo, mentorRepo, signingKey, time.Hour)

	result, err := handler.Handle(ctx, LoginCommand{Username: "elif", Role: RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, stud.ID.String(), result.SubjectID)
	assert.Equal(t, RoleStudent, result.Role)

	claims, err := ParseSession(result.Token, []byte(signingKey))
	require.NoError(t, err)
	assert.Equal(t, stud.ID.String(), claims.Subject)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, stud.GroupID.String(), claims.GroupID)

	t.Run("wrong signing key rejected", func(t *testing.T) {
		_, err := ParseSession(result.Token, []byte("another-key"))
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := handler.Handle(ctx, LoginCommand{Username: "yokboyle", Role: RoleStudent})
		assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	})

	t.Run("mentor role looked up separately", func(t *testing.T) {
		_, err := handler.Handle(ctx, LoginCommand{Username: "elif", Role: RoleMentor})
		assert.ErrorIs(t, err, shared.ErrMentorNotFound)
	})
}
