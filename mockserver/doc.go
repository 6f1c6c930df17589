// Package mockserver serves mock descriptors over real HTTP so that a
// restkit client in live mode can be pointed at canned responses.
//
// Each Fixture binds a method and gin route to a status code, a JSON body
// and an optional delay; 204 fixtures send no body. Fixtures are registered
// before Start:
//
//	srv, err := mockserver.New(mockserver.Config{Port: 8090})
//	fixtures, err := mockserver.LoadFixtures("fixtures.yml")
//	err = srv.RegisterAll(fixtures)
//	err = srv.Start(ctx)
//
// Plain listeners accept HTTP/1.1 and h2c. Config.Auth turns on JWT
// verification of the restkit auth header; WithValidator plugs in any
// other token check.
package mockserver
