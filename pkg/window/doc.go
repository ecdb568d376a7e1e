/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package window defines the windows used to resample an irregular event log into a regular
// sequence.
//
// A window is the interval (End - Length, End]: events exactly on the left boundary belong to
// the previous window. Windows are aligned, i.e. applied across the data of every source for the
// same period of time, and are identified by their end time because the extracted feature
// vector describes the state of the bus at that instant.
package window
