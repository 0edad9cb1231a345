package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    usecase.Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock usecase.Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	if err := validator.ValidateLogin(email, in.Password); err != nil {
		return AuthOutput{}, err
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return AuthOutput{}, usecase.NewError(usecase.KindUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "db error", Err: err}
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return AuthOutput{}, usecase.NewError(usecase.KindUnauthorized, "invalid credentials")
	}

	token, _, err := u.issuer.Issue(*user, u.clock.Now())
	if err != nil {
		return AuthOutput{}, &usecase.Error{Kind: usecase.KindStorage, Message: "token error", Err: err}
	}

	return AuthOutput{User: *user, Token: token}, nil
}
