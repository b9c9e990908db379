package server

func (s *Server) initRoutes() {
	mw := s.baseMiddleware()

	s.RegisterRouteHandler("GET /", ChainMiddleware(s.IndexHandler(), mw...))

	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), mw...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), mw...))
	s.RegisterRouteHandler("GET "+RouteResults, ChainMiddleware(s.ResultsHandler(), mw...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), mw...))
}
