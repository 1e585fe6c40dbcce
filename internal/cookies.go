package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "cinefile_access_token"
	COOKIE_REDIRECT_NAME     = "cinefile_redirect"
	COOKIE_FLASH_NAME        = "cinefile_flash"
)
