// Package myjellyfin signs in to the MyJellyfin cloud service and resolves
// account-linked servers. Accounts are obtained with a username and password
// or through the device pin link flow, and their resources connect back into
// jellyfin.Server clients.
package myjellyfin
