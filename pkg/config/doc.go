// Package config resolves SQL Server connection settings.
//
// Settings come from a YAML file of named profiles:
//
//	defaultProfile: staging
//	profiles:
//	  staging:
//	    server: db.staging.internal
//	    database: app
//	    user: deploy
//	    passwordEnv: STAGING_DB_PASSWORD
//	    defaultSchemas: [dbo, web]
//	  prod:
//	    server: db.prod.internal
//	    database: app
//	    user: deploy
//	    passwordKeyring: sqlsrv/prod-deploy
//	    trustCert: false
//
// Resolution layers built-in defaults (localhost:1433, master, encryption on,
// 30s timeout), the profile and then environment variables such as SQL_SERVER,
// SQL_USER, SQL_PASSWORD and DATABASE_URL. A profile can also be replaced entirely
// by an ad-hoc connection string with Connection.WithOverride.
//
// Passwords may be given inline, read from an environment variable (passwordEnv)
// or looked up in the OS keyring (passwordKeyring).
package config
