/*
Package configuration is a typed key/value registry for application
configuration with reflection-based injection into structs.

Start with NewService().  The service is seeded with the environment
and a handful of host properties (os.name, user.home, ...).  Add more
with LoadFile(), Load() (any property-file formatted io.Reader),
LoadMap(), or the Register family.  Pass the service to whatever needs
configuration.

Values are strings, arbitrary objects, or lists.  The typed getters
parse the string form of a value:

	port := svc.GetIntOr("server.port", 8080)
	debug := svc.GetBoolean("server.debug")
	greeting := svc.GetWithPlaceholders("greeting", "", "World") // "Hello {0}" -> "Hello World"

Getters never fail because a key is missing or a value does not parse:
they return the default.  The Require methods report a missing key as
an error, and GetChar reports a value that is not a single character.

Struct fields are filled with Inject():

	type Server struct {
		Name  string   `prop:"app.name"`
		Port  int      `prop:"server.port"`
		Hosts []string `prop:"server.hosts,split=;"`
	}

	var s Server
	err := svc.Inject(&s)

InjectAll() also calls bound methods.  Each field and method is
injected on its own: one that cannot be set or that fails is logged
and skipped.  See Injector for the tag parameters.

Key names can be derived from Go names with CamelCaseKey
("appName" -> "app.name") and UnderscoreKey ("APP_NAME" -> "app.name").
*/
package configuration
