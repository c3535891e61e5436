package api

func (s *APIServer) setupRoutes() {
	s.router.Handle("GET /health", s.handleHealth())
	s.router.Handle("GET /version", s.handleVersion())
	s.router.Handle("GET /status", s.handleStatus())

	// Logs stream
	s.router.Handle("GET "+s.streamPath, s.handleLogStream())

	// Download control
	s.router.Handle("POST "+s.startPath, s.handleStartDownload())
	s.router.Handle("POST "+s.stopPath, s.handleStop())
}
