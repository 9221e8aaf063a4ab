package techstack

// Technology is a catalog entry: the canonical spelling returned to callers
// and the alternative spellings that resolve to it.
type Technology struct {
	Name    string
	Aliases []string
}

// DefaultCatalog lists the technologies recognized in candidate answers.
var DefaultCatalog = []Technology{
	// Languages
	{Name: "Python"},
	{Name: "JavaScript", Aliases: []string{"js", "ecmascript"}},
	{Name: "TypeScript", Aliases: []string{"ts"}},
	{Name: "Java"},
	{Name: "C"},
	{Name: "C++", Aliases: []string{"cpp"}},
	{Name: "C#", Aliases: []string{"csharp", "c sharp"}},
	{Name: "Go", Aliases: []string{"golang"}},
	{Name: "Rust"},
	{Name: "PHP"},
	{Name: "Ruby"},
	{Name: "Kotlin"},
	{Name: "Swift"},
	{Name: "Scala"},
	{Name: "Perl"},
	{Name: "R"},
	{Name: "MATLAB"},
	{Name: "Dart"},
	{Name: "Objective-C", Aliases: []string{"objc"}},
	{Name: "Elixir"},
	{Name: "Haskell"},
	{Name: "Bash"},

	// Frontend
	{Name: "React", Aliases: []string{"react.js", "reactjs"}},
	{Name: "Vue", Aliases: []string{"vue.js", "vuejs"}},
	{Name: "Angular", Aliases: []string{"angularjs"}},
	{Name: "Svelte"},
	{Name: "Next.js", Aliases: []string{"nextjs"}},
	{Name: "Nuxt", Aliases: []string{"nuxt.js"}},
	{Name: "jQuery"},

	// Backend
	{Name: "Node.js", Aliases: []string{"node", "nodejs", "node js"}},
	{Name: "Django"},
	{Name: "Flask"},
	{Name: "FastAPI"},
	{Name: "Spring", Aliases: []string{"spring boot"}},
	{Name: "Express", Aliases: []string{"express.js", "expressjs"}},
	{Name: "NestJS"},
	{Name: "Laravel"},
	{Name: "ASP.NET", Aliases: []string{".net", "dotnet"}},
	{Name: "Rails", Aliases: []string{"ruby on rails"}},
	{Name: "gRPC"},

	// Databases
	{Name: "PostgreSQL", Aliases: []string{"postgres", "psql"}},
	{Name: "MySQL"},
	{Name: "MongoDB", Aliases: []string{"mongo"}},
	{Name: "Redis"},
	{Name: "Cassandra"},
	{Name: "Firebase"},
	{Name: "DynamoDB"},
	{Name: "Oracle"},
	{Name: "SQL Server", Aliases: []string{"mssql"}},
	{Name: "MariaDB"},
	{Name: "Elasticsearch"},
	{Name: "SQLite"},

	// Cloud & DevOps
	{Name: "AWS", Aliases: []string{"amazon web services"}},
	{Name: "GCP", Aliases: []string{"google cloud"}},
	{Name: "Azure"},
	{Name: "Docker"},
	{Name: "Kubernetes", Aliases: []string{"k8s"}},
	{Name: "Linux"},
	{Name: "Git"},
	{Name: "Jenkins"},
	{Name: "GitLab CI"},
	{Name: "Terraform"},
	{Name: "Ansible"},

	// Web
	{Name: "HTML", Aliases: []string{"html5"}},
	{Name: "CSS", Aliases: []string{"css3"}},
	{Name: "SCSS", Aliases: []string{"sass"}},
	{Name: "SQL"},
	{Name: "GraphQL"},
	{Name: "REST", Aliases: []string{"restful"}},
	{Name: "API"},
	{Name: "WebSocket", Aliases: []string{"websockets"}},

	// Data & ML
	{Name: "TensorFlow"},
	{Name: "PyTorch"},
	{Name: "Scikit-learn", Aliases: []string{"sklearn"}},
	{Name: "Pandas"},
	{Name: "NumPy"},
	{Name: "Keras"},

	// Other tools
	{Name: "Apache"},
	{Name: "Nginx"},
	{Name: "RabbitMQ"},
	{Name: "Kafka"},
}
