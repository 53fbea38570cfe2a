package skills

// Статический каталог навыков: категория → канонические имена.
// Канонические имена уже нормализованы (нижний регистр). Варианты
// написания живут в aliasTable и в каталог не попадают.
var catalog = map[string][]string{
	"languages": {
		"python", "javascript", "typescript", "java", "c++", "c#", "golang",
		"go", "rust", "ruby", "php", "swift", "kotlin", "scala", "r",
		"matlab", "perl", "haskell", "elixir", "dart", "lua", "julia",
	},
	"frontend": {
		"react", "angular", "vue", "svelte", "nextjs", "nuxt", "gatsby",
		"html", "html5", "css", "css3", "sass", "scss", "tailwind",
		"tailwindcss", "bootstrap", "material ui", "mui", "chakra ui",
		"webpack", "vite", "redux", "zustand", "graphql", "apollo", "jquery",
	},
	"backend": {
		"nodejs", "express", "express.js", "django", "flask", "fastapi",
		"spring", "spring boot", "laravel", "rails", "ruby on rails",
		"dotnet", "nestjs", "nest.js", "fastify", "gin", "fiber", "echo",
		"actix", "rocket",
	},
	"databases": {
		"sql", "mysql", "postgresql", "sqlite", "mongodb", "redis",
		"cassandra", "dynamodb", "firebase", "supabase", "elasticsearch",
		"neo4j", "oracle", "mssql", "couchdb", "influxdb", "prisma",
		"sequelize", "sqlalchemy", "mongoose", "typeorm",
	},
	"devops_cloud": {
		"docker", "kubernetes", "aws", "azure", "google cloud", "heroku",
		"vercel", "netlify", "digitalocean", "terraform", "ansible",
		"jenkins", "github actions", "gitlab ci", "circleci", "travis ci",
		"ci/cd", "nginx", "apache", "linux", "ubuntu", "bash", "shell",
		"powershell", "helm", "istio",
	},
	"data_ml": {
		"machine learning", "deep learning", "neural networks", "nlp",
		"computer vision", "tensorflow", "pytorch", "keras", "scikit-learn",
		"pandas", "numpy", "matplotlib", "seaborn", "plotly", "jupyter",
		"spark", "hadoop", "airflow", "mlflow", "huggingface",
		"transformers", "langchain", "openai", "data science", "analytics",
		"tableau", "power bi", "looker", "dbt", "snowflake", "databricks",
	},
	"tools": {
		"git", "github", "gitlab", "bitbucket", "jira", "confluence",
		"slack", "figma", "postman", "swagger", "rest", "graphql", "grpc",
		"websockets", "oauth", "jwt", "microservices", "agile", "scrum",
		"kanban", "tdd", "bdd", "unit testing", "jest", "pytest",
		"selenium", "cypress", "playwright",
	},
	"mobile": {
		"react native", "flutter", "android", "ios", "swift", "kotlin",
		"xamarin", "ionic", "capacitor", "expo",
	},
}

// aliasTable: вариант написания → каноническое имя.
var aliasTable = map[string]string{
	// frontend
	"react.js": "react",
	"reactjs":  "react",
	"vue.js":   "vue",
	"vuejs":    "vue",

	// backend / node
	"node.js": "nodejs",
	"next.js": "nextjs",

	// databases
	"postgres": "postgresql",
	"mariadb":  "mysql",

	// data / ml
	"sklearn": "scikit-learn",
	"ml":      "machine learning",
	"dl":      "deep learning",

	// devops
	"k8s":           "kubernetes",
	"gcp":           "google cloud",
	"springboot":    "spring boot",
	"spring-boot":   "spring boot",
	"ruby-on-rails": "ruby on rails",
	"rest api":      "rest",

	// .net
	".net":    "dotnet",
	"asp.net": "dotnet",
	"aspnet":  "dotnet",

	// ci/cd
	"ci-cd":         "ci/cd",
	"github-action": "github actions",

	// tools
	"unit-testing": "unit testing",
}
