// Package repository define los contratos de persistencia de credenciales.
//
// Riders y drivers viven en stores separados que comparten la misma
// interfaz: cada StoreResolver de internal/principal recibe un
// CredentialRepository y no sabe si detrás hay memoria o PostgreSQL.
//
//	┌───────────────────────────────────────────┐
//	│   principal.StoreResolver / services      │
//	└───────────────────────────────────────────┘
//	                    │
//	                    ▼
//	┌───────────────────────────────────────────┐
//	│  domain/repository.CredentialRepository   │
//	└───────────────────────────────────────────┘
//	            │                   │
//	            ▼                   ▼
//	   ┌────────────────┐   ┌────────────────┐
//	   │ store/memory   │   │   store/pg     │
//	   └────────────────┘   └────────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - El identificador llega normalizado (minúsculas, sin espacios)
//   - Errores de dominio están en errors.go
package repository
