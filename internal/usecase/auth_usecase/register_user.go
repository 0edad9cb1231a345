package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
}

// 会員登録・ログインの出力（user + token）
type AuthOutput struct {
	User  model.User
	Token string
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	idGen    usecase.IDGenerator
	clock    usecase.Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	idGen usecase.IDGenerator,
	clock usecase.Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		idGen:    idGen,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)

	// 必須・形式チェック
	if err := validator.ValidateRegister(email, in.Password, name); err != nil {
		return AuthOutput{}, err
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return AuthOutput{}, usecase.NewError(usecase.KindConflict, "user already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "db error", Err: err}
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "hash error", Err: err}
	}

	user := &model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		CreatedAt:    u.clock.Now(),
	}

	// DBへ保存（同時登録はユニーク制約で弾く）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthOutput{}, usecase.NewError(usecase.KindConflict, "user already exists")
		}
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "db error", Err: err}
	}

	token, _, err := u.issuer.Issue(*user, u.clock.Now())
	if err != nil {
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "token error", Err: err}
	}

	return AuthOutput{User: *user, Token: token}, nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
