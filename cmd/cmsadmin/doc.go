// Package main provides the entry point for cmsadmin.
//
// cmsadmin manages the content of a CMS site through its admin API:
//
//   - Login sessions that survive restarts (login, logout, whoami, passwd)
//   - Home sections, services, articles, members, categories and contact
//     details (list, get, save, delete)
//   - Member avatars and article view counts
//   - Configuration, build information and client metrics
//
// Usage:
//
//	cmsadmin [global flags] command [flags] [args]
//	cmsadmin -s https://cms.example.com login -u admin
//	cmsadmin -o json article list --page 2
//	cmsadmin shell
package main
