package sqlite

const qCreateSchema = `--sql 11491bd3-7405-4d2c-b770-0bab921ce33e
create table if not exists users (
    id integer primary key autoincrement,
    email text not null unique collate nocase,
    role text not null default 'user',
    plan text not null default 'free',
    banned boolean not null default 0,
    email_verified boolean not null default 0,
    last_seen_at timestamp,
    created_at timestamp not null default current_timestamp,
    updated_at timestamp not null default current_timestamp
);
create table if not exists sources (
    id integer primary key autoincrement,
    user_id integer not null references users(id) on delete cascade,
    feed_url text not null,
    created_at timestamp not null default current_timestamp
);
create index if not exists sources_user_id_idx on sources (user_id);
create table if not exists categories (
    id integer primary key autoincrement,
    user_id integer not null references users(id) on delete cascade,
    name text not null,
    created_at timestamp not null default current_timestamp
);
create index if not exists categories_user_id_idx on categories (user_id);
create table if not exists public_feeds (
    id integer primary key autoincrement,
    user_id integer not null references users(id) on delete cascade,
    slug text not null unique,
    created_at timestamp not null default current_timestamp
);
create index if not exists public_feeds_user_id_idx on public_feeds (user_id);
create table if not exists blocked_domains (
    domain text primary key,
    reason text,
    created_at timestamp not null default current_timestamp
);
create table if not exists global_settings (
    id integer primary key check (id = 1),
    require_email_verification boolean not null default 0
);
insert or ignore into global_settings (id) values (1);
`

const qSelectUserByID = `--sql c870c7e7-ef94-4157-a213-ab4ea1ff44d2
select id, email, role, plan, banned, email_verified, last_seen_at, created_at
from users
where id = ?;
`

const qSelectUserByEmail = `--sql a3841d3a-7bce-4e8d-9535-1335ec28877e
select id, email, role, plan, banned, email_verified, last_seen_at, created_at
from users
where email = ?;
`

const qInsertUser = `--sql ea0c9aa2-abf5-4360-8877-d7dab1e0f26f
insert into users (email, role, plan, banned, email_verified, last_seen_at)
values (?, ?, ?, ?, ?, ?)
returning id;
`

const qUpdateUserLastSeen = `--sql 7192984e-97cc-4226-a986-06ccba8a7d90
update users
set last_seen_at = ?1
where id = ?2
  and (last_seen_at is null or last_seen_at < ?1);
`

const qUpdateUserAccount = `--sql 35390701-8daf-4e63-8c35-ff7e4bb8d105
update users
set plan = coalesce(?2, plan),
    banned = coalesce(?3, banned),
    email_verified = coalesce(?4, email_verified),
    updated_at = current_timestamp
where id = ?1
returning id, email, role, plan, banned, email_verified, last_seen_at, created_at;
`

const qCountSources = `--sql 404a86c6-6068-46a5-b040-59fe38045adb
select count(*) from sources where user_id = ?;
`

const qCountCategories = `--sql 2ea63c7e-13d3-4882-a3ab-6a0231f8fd38
select count(*) from categories where user_id = ?;
`

const qCountPublicFeeds = `--sql f488ac18-c47c-439f-a625-b8bcdffd11dd
select count(*) from public_feeds where user_id = ?;
`

const qInsertSource = `--sql 63dd7626-4922-4400-b80c-f1247862e969
insert into sources (user_id, feed_url) values (?, ?) returning id;
`

const qInsertCategory = `--sql afa3e72f-c597-4b73-9fce-65de88d83520
insert into categories (user_id, name) values (?, ?) returning id;
`

const qInsertPublicFeed = `--sql 4216dd01-0739-4341-b338-1cfb1f54119c
insert into public_feeds (user_id, slug) values (?, ?) returning id;
`

const qSelectBlockedDomains = `--sql 6f68c731-014f-4ab8-8833-4b7fb5a04281
select domain, reason from blocked_domains order by domain;
`

const qUpsertBlockedDomain = `--sql 60a1e91d-0956-4f98-80fe-7d1d8b6f2726
insert into blocked_domains (domain, reason) values (?, ?)
on conflict (domain) do update set reason = excluded.reason;
`

const qDeleteBlockedDomain = `--sql a09d90cf-ee7e-4080-8bad-52f0de8118d1
delete from blocked_domains where domain = ?;
`

const qSelectGlobalSettings = `--sql b6c8b30e-0aa8-4ce4-a33b-e0bbd2a6af21
select require_email_verification from global_settings where id = 1;
`

const qUpsertGlobalSettings = `--sql 0c3b0d7e-6a57-4d0f-9a0e-2f7c1b9e5d44
insert into global_settings (id, require_email_verification) values (1, ?)
on conflict (id) do update set require_email_verification = excluded.require_email_verification;
`
