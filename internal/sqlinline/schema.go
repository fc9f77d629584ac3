package sqlinline

// QCreateSchema is idempotent and safe to run on every start.
const QCreateSchema = `--sql fdd317c8-6032-4125-8c98-37302851b7c4
create table if not exists users (
    id bigserial primary key,
    email text not null unique,
    role text not null default 'user',
    plan text not null default 'free',
    banned boolean not null default false,
    email_verified boolean not null default false,
    last_seen_at timestamptz,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create table if not exists sources (
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    feed_url text not null,
    created_at timestamptz not null default now()
);
create index if not exists sources_user_id_idx on sources (user_id);
create table if not exists categories (
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    name text not null,
    created_at timestamptz not null default now()
);
create index if not exists categories_user_id_idx on categories (user_id);
create table if not exists public_feeds (
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    slug text not null unique,
    created_at timestamptz not null default now()
);
create index if not exists public_feeds_user_id_idx on public_feeds (user_id);
create table if not exists blocked_domains (
    domain text primary key,
    reason text,
    created_at timestamptz not null default now()
);
create table if not exists global_settings (
    id integer primary key check (id = 1),
    require_email_verification boolean not null default false
);
insert into global_settings (id) values (1) on conflict (id) do nothing;
`
