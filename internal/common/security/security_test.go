package security

import (
	"context"
	"testing"
	"time"

	"practicetrack/internal/platform/config"

	. "github.com/smartystreets/goconvey/convey"
)

func setup() {
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			JWTKey: []byte("test-secret"),
			JWTExp: time.Hour,
		}
	}
	if TokenAuth == nil {
		InitJWT()
	}
}

func TestPasswordHashing(t *testing.T) {
	Convey("Given a password", t, func() {
		hash, err := HashPassword("hunter22")
		So(err, ShouldBeNil)
		So(hash, ShouldNotEqual, "hunter22")

		Convey("The original verifies against the hash", func() {
			So(CheckPasswordHash("hunter22", hash), ShouldBeTrue)
		})

		Convey("Anything else does not", func() {
			So(CheckPasswordHash("hunter23", hash), ShouldBeFalse)
			So(CheckPasswordHash("", hash), ShouldBeFalse)
		})

		Convey("Hashing is salted, so two hashes differ", func() {
			other, err := HashPassword("hunter22")
			So(err, ShouldBeNil)
			So(other, ShouldNotEqual, hash)
		})
	})
}

func TestTokenRoundTrip(t *testing.T) {
	setup()

	Convey("Given a generated token", t, func() {
		tokenString, err := GenerateToken("u1", "alice")
		So(err, ShouldBeNil)
		So(tokenString, ShouldNotBeEmpty)

		token, err := TokenAuth.Decode(tokenString)
		So(err, ShouldBeNil)
		claims, err := token.AsMap(context.Background())
		So(err, ShouldBeNil)

		Convey("The identity claims round-trip", func() {
			userID, err := GetUserIDFromClaims(claims)
			So(err, ShouldBeNil)
			So(userID, ShouldEqual, "u1")

			username, err := GetUsernameFromClaims(claims)
			So(err, ShouldBeNil)
			So(username, ShouldEqual, "alice")
		})

		Convey("Each token carries a distinct session id", func() {
			sessionID, err := GetSessionIDFromClaims(claims)
			So(err, ShouldBeNil)
			So(sessionID, ShouldNotBeEmpty)

			second, err := GenerateToken("u1", "alice")
			So(err, ShouldBeNil)
			secondToken, err := TokenAuth.Decode(second)
			So(err, ShouldBeNil)
			secondClaims, err := secondToken.AsMap(context.Background())
			So(err, ShouldBeNil)
			secondSessionID, err := GetSessionIDFromClaims(secondClaims)
			So(err, ShouldBeNil)
			So(secondSessionID, ShouldNotEqual, sessionID)
		})

		Convey("The expiry lands at the configured horizon", func() {
			expiry, err := GetExpiryFromClaims(claims)
			So(err, ShouldBeNil)
			So(expiry.After(time.Now().Add(50*time.Minute)), ShouldBeTrue)
			So(expiry.Before(time.Now().Add(70*time.Minute)), ShouldBeTrue)
		})
	})
}

func TestClaimAccessors(t *testing.T) {
	Convey("Given raw claim maps", t, func() {
		Convey("Missing or mistyped identity claims error out", func() {
			_, err := GetUserIDFromClaims(map[string]interface{}{})
			So(err, ShouldNotBeNil)
			_, err = GetUserIDFromClaims(map[string]interface{}{"user_id": 42})
			So(err, ShouldNotBeNil)
			_, err = GetUsernameFromClaims(map[string]interface{}{"username": ""})
			So(err, ShouldNotBeNil)
			_, err = GetSessionIDFromClaims(map[string]interface{}{})
			So(err, ShouldNotBeNil)
		})

		Convey("Expiry accepts the forms a decoded token can carry", func() {
			at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			got, err := GetExpiryFromClaims(map[string]interface{}{"exp": at})
			So(err, ShouldBeNil)
			So(got.Equal(at), ShouldBeTrue)

			got, err = GetExpiryFromClaims(map[string]interface{}{"exp": float64(at.Unix())})
			So(err, ShouldBeNil)
			So(got.Unix(), ShouldEqual, at.Unix())

			got, err = GetExpiryFromClaims(map[string]interface{}{"exp": at.Unix()})
			So(err, ShouldBeNil)
			So(got.Unix(), ShouldEqual, at.Unix())

			_, err = GetExpiryFromClaims(map[string]interface{}{})
			So(err, ShouldNotBeNil)
		})
	})
}
