package recording

// Package recording decodes and encodes the dash camera's fixed file name
// convention YYYYMMDD_hhmmss_TC.ext into recording type, camera position and
// timestamp.
