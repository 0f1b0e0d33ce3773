package meeting

import (
	"errors"
	"time"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
)

type TokenIssuer struct {
	AppID   string
	AppCert string
	TTL     time.Duration
}

// IssueRTCToken builds an Agora RTC token for the given channel and uid.
// Token cryptography is delegated to the Agora SDK.
func (t *TokenIssuer) IssueRTCToken(channel string, uid uint32, publisher bool) (string, error) {
	if t.AppID == "" || t.AppCert == "" {
		return "", errors.New("agora credentials not configured")
	}

	var role rtctokenbuilder.Role = rtctokenbuilder.RoleSubscriber
	if publisher {
		role = rtctokenbuilder.RolePublisher
	}

	expireAt := uint32(time.Now().Add(t.TTL).Unix())
	return rtctokenbuilder.BuildTokenWithUID(t.AppID, t.AppCert, channel, uid, role, expireAt)
}
