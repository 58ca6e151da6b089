package auth_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(secret string, method jwt.SigningMethod, claims auth.Claims) string {
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	Expect(err).NotTo(HaveOccurred())
	return signed
}

func validClaims() auth.Claims {
	return auth.Claims{
		Email: "cand@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

var _ = Describe("JWTVerifier", func() {
	var verifier *auth.JWTVerifier

	BeforeEach(func() {
		verifier = auth.NewJWTVerifier(testSecret, "authenticated")
	})

	It("should accept a token signed with the project secret", func() {
		identity, err := verifier.Verify(context.Background(), signToken(testSecret, jwt.SigningMethodHS256, validClaims()))
		Expect(err).NotTo(HaveOccurred())
		Expect(identity.UserID).To(Equal("user-1"))
		Expect(identity.Email).To(Equal("cand@example.com"))
	})

	It("should reject a token signed with another secret", func() {
		_, err := verifier.Verify(context.Background(), signToken("another-secret-another-secret-1234", jwt.SigningMethodHS256, validClaims()))
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("should report expiry separately", func() {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(context.Background(), signToken(testSecret, jwt.SigningMethodHS256, claims))
		Expect(err).To(Equal(internal.ErrTokenExpired))
	})

	It("should only allow HS256", func() {
		_, err := verifier.Verify(context.Background(), signToken(testSecret, jwt.SigningMethodHS512, validClaims()))
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("should require a subject", func() {
		claims := validClaims()
		claims.Subject = ""
		_, err := verifier.Verify(context.Background(), signToken(testSecret, jwt.SigningMethodHS256, claims))
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("should check the audience when configured", func() {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"anon"}
		_, err := verifier.Verify(context.Background(), signToken(testSecret, jwt.SigningMethodHS256, claims))
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("should reject garbage", func() {
		_, err := verifier.Verify(context.Background(), "not.a.jwt")
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})
})
