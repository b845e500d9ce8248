package entity

import "time"

// AppSetting is a database-persisted configuration override. Secret
// values are masked when listed through the admin surface.
type AppSetting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	IsSecret  bool      `json:"is_secret"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys recognized by the dispatch configuration resolver.
const (
	SettingSFTPHost      = "netsuite_sftp_host"
	SettingSFTPPort      = "netsuite_sftp_port"
	SettingSFTPUsername  = "netsuite_sftp_username"
	SettingSFTPPassword  = "netsuite_sftp_password"
	SettingSFTPDirectory = "netsuite_sftp_directory"
)
