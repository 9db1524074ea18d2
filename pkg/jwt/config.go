package jwt

import "time"

// Config はJWT設定を定義します
type Config struct {
	SecretKey         string
	Issuer            string
	Audience          []string
	AccessTokenExpiry time.Duration
}
