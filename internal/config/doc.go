// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic model of a session file: the
// source spectra a session starts with and the derived equations to apply on
// top of them, plus the Loader interface concrete formats implement.
//
// The HCL implementation lives in the hcl package.
package config
