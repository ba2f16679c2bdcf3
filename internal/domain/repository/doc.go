// Package repository define las interfaces de acceso a datos del dominio.
//
// Las implementaciones concretas viven en internal/store/pg. Los services
// dependen solo de estas interfaces, lo que permite fakes en tests.
package repository
